package api

// Version identifies the server build in responses and health checks.
const Version = "1.0.0"
