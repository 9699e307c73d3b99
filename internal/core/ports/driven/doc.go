// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PlatformClient: Talks to the remote document platform's open API
//   - SessionStore: User session and pending-authorization persistence
//   - ConfigStore: Application configuration
//   - Renderer / RendererRegistry: Projects documents into output formats
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or renderer package
package driven
