// Package commands defines the zoosanitario CLI.
//
// Commands
//
//   - rates           List and show slaughter rates
//   - introducers     List and show livestock introducers
//   - invoices        List, create and pay invoices
//   - certificates    List, issue, annul and verify zoosanitary certificates
//   - stats           Print the dashboard of list statistics
//   - credentials     Submit or inspect the Oracle service account
//   - events          Tail the domain event bus
//
// # Implementation
//
// The root command loads the configuration and builds the dependency graph
// before any subcommand runs. It also starts a watcher on the credentials
// gate: when an API call fails for lack of Oracle credentials, the watcher
// answers from configuration or prompts on the terminal, submits the
// account and releases the paused call.
package commands
