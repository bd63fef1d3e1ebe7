package internal

// Version is the current release version of doctranslate
const Version = "0.3.0"
