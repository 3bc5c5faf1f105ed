// Package highlight provides support to highlight code blocks
// embedded in Portable Text documents.
// It uses the Chroma library to do this work.
package highlight
