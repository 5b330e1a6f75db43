// Package commands defines the cloudgw CLI.
//
// Commands
//
//   - customer   Serve GET /customer-api/report (default port 8081)
//   - employee   Serve GET /employee-api/report (default port 8082)
//   - registry   Run the service registry (default port 8761)
//   - apps       List the instances known to a registry
//
// # Implementation
//
// The root command loads configuration from the environment (and .env) and
// builds the shared zap logger before any subcommand runs. Server commands
// block until SIGINT or SIGTERM and then shut down gracefully.
package commands
