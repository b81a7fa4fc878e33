// Package api defines the public contract of the draftline workflow
// core: the session and step aggregates, the fixed step-catalog
// definition types, the Engine interface, the collaborator contracts
// (AI/search generation and file export), the observer callbacks, and
// the business-rule error taxonomy.
//
// Application code normally imports the root draftline package, which
// re-exports everything here alongside the engine constructors.
package api
