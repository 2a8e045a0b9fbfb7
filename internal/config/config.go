// internal/config/config.go
package config

type Config struct {
	RSSwitch RSSwitchConfig `yaml:"rsswitch"`
}

type RSSwitchConfig struct {
	Station  string         `yaml:"station"`
	Log      LogConfig      `yaml:"log"`
	Line     LineConfig     `yaml:"line"`
	Transmit TransmitConfig `yaml:"transmit"`

	// Input channels (optional, opt-in)
	Device *DeviceConfig `yaml:"device"`
	Serial *SerialConfig `yaml:"serial"`
	HTTP   *HTTPConfig   `yaml:"http"`
	MQTT   *MQTTConfig   `yaml:"mqtt"`
	Modbus *Modbus       `yaml:"modbus"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`  // zerolog level name
	Format string `yaml:"format"` // console | json
}

// ---- OUTPUT LINE ----

type LineConfig struct {
	Backend string `yaml:"backend"` // periph | dryrun
	Pin     int    `yaml:"pin"`
}

// ---- TRANSMIT POLICY ----

type TransmitConfig struct {
	Repeat        int    `yaml:"repeat"`
	Busy          string `yaml:"busy"` // wait | reject
	WaitTimeoutMs int    `yaml:"wait_timeout_ms"`
	StrictSymbols bool   `yaml:"strict_symbols"`
	Realtime      bool   `yaml:"realtime"`
}

// ---- INPUTS ----

type DeviceConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // hex | raw
}

type SerialConfig struct {
	Port   string `yaml:"port"`
	Baud   int    `yaml:"baud"`
	Format string `yaml:"format"`
}

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Prefix   string `yaml:"prefix"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      byte   `yaml:"qos"`
}

// ---- MODBUS MAILBOX ----

type Modbus struct {
	Endpoint       string `yaml:"endpoint"`
	UnitID         uint8  `yaml:"unit_id"`
	TimeoutMs      int    `yaml:"timeout_ms"`
	IntervalMs     int    `yaml:"interval_ms"`
	CommandAddress uint16 `yaml:"command_address"`
	StatusAddress  uint16 `yaml:"status_address"`
}
