package config

import "gopkg.in/ini.v1"

// LoadINI reads a DNP3Config from an INI file's [dnp3] section, starting
// from Default() for any key that is absent, then validates the result.
// Unknown keys are ignored, matching ini.v1's permissive section.Key
// lookup.
func LoadINI(path string) (DNP3Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return DNP3Config{}, err
	}

	cfg := Default()
	section := file.Section("dnp3")

	if v := section.Key("host").String(); v != "" {
		cfg.Host = v
	}
	cfg.Port = parseInt(section.Key("port").Value(), cfg.Port)
	cfg.MasterAddress = parseInt(section.Key("master_address").Value(), cfg.MasterAddress)
	cfg.OutstationAddress = parseInt(section.Key("outstation_address").Value(), cfg.OutstationAddress)

	cfg.ResponseTimeout = parseFloat(section.Key("response_timeout").Value(), cfg.ResponseTimeout)
	cfg.ConnectionTimeout = parseFloat(section.Key("connection_timeout").Value(), cfg.ConnectionTimeout)
	cfg.SelectTimeout = parseFloat(section.Key("select_timeout").Value(), cfg.SelectTimeout)

	cfg.MaxRetries = parseInt(section.Key("max_retries").Value(), cfg.MaxRetries)
	cfg.RetryDelay = parseFloat(section.Key("retry_delay").Value(), cfg.RetryDelay)

	cfg.ConfirmRequired = parseBool(section.Key("confirm_required").Value(), cfg.ConfirmRequired)
	cfg.MaxFrameSize = parseInt(section.Key("max_frame_size").Value(), cfg.MaxFrameSize)

	cfg.MaxAPDUSize = parseInt(section.Key("max_apdu_size").Value(), cfg.MaxAPDUSize)
	cfg.EnableUnsolicited = parseBool(section.Key("enable_unsolicited").Value(), cfg.EnableUnsolicited)

	cfg.Class0PollInterval = parseFloat(section.Key("class_0_poll_interval").Value(), cfg.Class0PollInterval)
	cfg.Class1PollInterval = parseFloat(section.Key("class_1_poll_interval").Value(), cfg.Class1PollInterval)
	cfg.Class2PollInterval = parseFloat(section.Key("class_2_poll_interval").Value(), cfg.Class2PollInterval)
	cfg.Class3PollInterval = parseFloat(section.Key("class_3_poll_interval").Value(), cfg.Class3PollInterval)

	if v := section.Key("log_level").String(); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogRawFrames = parseBool(section.Key("log_raw_frames").Value(), cfg.LogRawFrames)

	if err := cfg.Validate(); err != nil {
		return DNP3Config{}, err
	}
	return cfg, nil
}
