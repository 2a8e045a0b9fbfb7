// internal/status/constants.go
package status

// Mailbox and status block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- COMMAND BLOCK GEOMETRY ----

// CommandSlots is the fixed size of the command block.
const CommandSlots = 5

// SlotSequence changes to trigger one command. Zero means idle.
const SlotSequence = 0

// SlotEncoder holds the encoder kind.
const SlotEncoder = 1

// SlotGroup holds the group index.
const SlotGroup = 2

// SlotSocket holds the socket index.
const SlotSocket = 3

// SlotData holds the data index (0 = off, 1 = on).
const SlotData = 4

// ---- STATUS BLOCK GEOMETRY ----

// SlotsPerStation is the fixed number of logical slots in the status block.
const SlotsPerStation = 20

// SlotHealthCode holds the station health state.
const SlotHealthCode = 0

// SlotAckSequence echoes the last command sequence handled.
const SlotAckSequence = 1

// SlotLastResultCode holds the result code of the last command.
const SlotLastResultCode = 2

// SlotTransmitCount counts successful transmissions.
const SlotTransmitCount = 3

// ---- RESERVED RANGE ----

// Slots 4–10 are reserved for future use.
const SlotReservedStart = 4
const SlotReservedEnd = 10

// ---- STATION NAME ----

// SlotStationNameStart is the first slot used for the station name.
const SlotStationNameStart = 11

// SlotStationNameSlots is the number of slots reserved for the station name.
const SlotStationNameSlots = 8

// SlotStationNameEnd is the last slot used for the station name (inclusive).
const SlotStationNameEnd = SlotStationNameStart + SlotStationNameSlots - 1

// ---- LIMITS ----

// StationNameMaxChars is the maximum number of ASCII characters stored for the station name.
const StationNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state before any command.
const HealthUnknown uint16 = 0

// HealthOK means the last command was transmitted.
const HealthOK uint16 = 1

// HealthError means the last command failed.
const HealthError uint16 = 2

// ---- RESULT CODES ----

const (
	ResultOK                  uint16 = 0
	ResultUnknownEncoder      uint16 = 1
	ResultOutOfRange          uint16 = 2
	ResultResourceUnavailable uint16 = 3
	ResultHardwareFault       uint16 = 4
	ResultMalformedCodeword   uint16 = 5
	ResultMalformedCommand    uint16 = 6
	ResultGeneric             uint16 = 0xFFFF
)
