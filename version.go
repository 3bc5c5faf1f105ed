package main

// _version is the version of pt2html.
// It's overwritten at build time with -ldflags.
var _version = "dev"
