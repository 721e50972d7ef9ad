// Package gitignore discovers every .gitignore file below a project root and answers
// whether a path is hidden by any of them.
//
// Each discovered file becomes a Scope that governs only its own directory subtree.
// Scopes are evaluated independently and a path is ignored as soon as one scope
// excludes it. A negation in a nested .gitignore therefore cannot re-include a path
// that an ancestor .gitignore excludes.
package gitignore
