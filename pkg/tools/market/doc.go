// Package market provides the financial data tools the agents call:
// news scraping, quote lookups, technical analysis, and model-backed
// scenario generation.
//
// Handlers never surface upstream failures as errors to the model; a
// failed source degrades to a JSON error payload so the conversation
// can continue.
package market
