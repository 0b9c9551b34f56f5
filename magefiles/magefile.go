//go:build mage

// Package main provides build targets for the speakboard project using Mage.
//
// Usage:
//
//	mage build          Compile speakboard binary to bin/
//	mage serve          Build and run the local server
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Write a coverage profile to bin/coverage.out
//	mage lint           Run golangci-lint
//	mage vet            Run go vet
//	mage clean          Remove build artifacts
//	mage install        Install speakboard to GOPATH/bin
//	mage stats          Print Go LOC and documentation word counts
package main
