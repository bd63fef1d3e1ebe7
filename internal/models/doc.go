// Package models provides functionality for listing available Groq
// models. It helps users discover which chat models are available
// with their API key.
package models
