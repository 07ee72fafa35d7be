// Package utils provides common utility functions for the inventory-sync application.
// It includes safe coercion helpers for raw spreadsheet cell values and other
// shared logic that doesn't fit into domain-specific packages.
package utils
