// Package services is the console's view of the REST backend: one service
// per concern, each validating input before any request is made.
package services
