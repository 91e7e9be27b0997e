// Package apps ties the registry, compose file model, docker boundary
// and template provisioner together into the operations the CLI
// exposes: registering existing compose projects, cloning or
// provisioning new ones, removing them, and introspecting their state.
//
// Key concepts:
//
//   - Registered app: a name in apps.json pointing at a directory that
//     holds a compose file. The registry stores the pointer only; the
//     compose file is resolved from the directory at every operation.
//   - Managed directory: apps created by clone, create, or restore live
//     under the configured apps directory. Apps registered with add stay
//     wherever they already are.
//   - Live state: container status comes from the engine API and is
//     strictly best-effort; every listing degrades to registry data when
//     the daemon is unreachable.
package apps
