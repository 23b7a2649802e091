package crosslink

// Version is reported by the crosslink command.
const Version = "0.1.0"
