package logging

// Component names attached to every log record under the "component" key.
const (
	ComponentStartup = "startup"
	ComponentBatch   = "batch"
	ComponentServer  = "server"
)
