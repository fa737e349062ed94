package main

// ResolveBaseURL exposes resolveBaseURL for testing.
var ResolveBaseURL = resolveBaseURL
