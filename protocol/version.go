package protocol

// DDS protocol versions, and what each one added.
const (
	VersionUnknown = 0
	Version1       = 1
	Version3       = 3

	// Authentication
	Version4 = 4

	// Multi-mode retrieval (multiple messages returned in one response)
	Version5 = 5

	// Retrieval of LRGS event messages
	Version6 = 6
	Version7 = 7

	// Extensible (XML) format for message exchange
	Version8 = 8

	// ASCENDING_TIME and RT_SETTLE_DELAY in search criteria
	Version9 = 9

	// Iridium messages
	Version10 = 10

	// SINGLE mode in search criteria
	Version11 = 11

	// GOES_SELFTIMED and GOES_RANDOM sources, PARITY_ERROR in search criteria
	Version12 = 12

	// Set password functions
	Version13 = 13

	// SHA-256 authenticators
	Version14 = 14

	LatestVersion = Version14
)
