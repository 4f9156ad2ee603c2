// ABOUTME: Version constants for the Speakwire client
// ABOUTME: Reported in startup logs
package version

const (
	// Version is the software version
	Version = "0.1.0"

	// Product is the product name
	Product = "Speakwire Player"

	// Manufacturer is the manufacturer name
	Manufacturer = "Speakwire Audio"
)
