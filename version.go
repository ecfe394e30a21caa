package optimism

// Version is the version of the l2genesis builder.
var Version = "v0.1.0"
