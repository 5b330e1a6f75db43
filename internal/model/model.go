package model

// Package model contains domain models/data structures shared by the registry,
// its storage backends and the discovery client. No business logic here.

// Application groups the registered instances of one service name.
type Application struct {
	Name      string     `json:"name"`
	Instances []Instance `json:"instance"`
}

// Applications is the full registry view returned to clients.
type Applications struct {
	Applications []Application `json:"application"`
}
