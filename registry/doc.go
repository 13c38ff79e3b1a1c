// Package registry publishes built packages to OCI registries and pulls them
// back.
//
// A package is stored as an OCI 1.1 artifact: an empty config, one
// zstd-compressed layer holding the encoded package, and a manifest tagged
// per build flavor. [Push] and [Pull] work against any oras.Target, so tests
// and local tooling can use an in-memory or OCI layout store; [Client] wraps
// them for remote repositories.
package registry
