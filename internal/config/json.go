package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the optional JSON config file.
type StructuredJSONConfig struct {
	Store struct {
		ProfileDir   string   `json:"profile_dir"`
		FileName     string   `json:"file_name"`
		Backups      int      `json:"backups"`
		BackupBase   Duration `json:"backup_base"`
		BackupGrowth float64  `json:"backup_growth"`
	} `json:"store,omitempty"`

	Crypto struct {
		ScryptN        int `json:"scrypt_n"`
		ScryptR        int `json:"scrypt_r"`
		ScryptP        int `json:"scrypt_p"`
		MasterKeyLimit int `json:"master_key_limit"`
	} `json:"crypto,omitempty"`

	Access struct {
		TokenTTL Duration `json:"token_ttl"`
	} `json:"access,omitempty"`

	Log struct {
		Level  string `json:"level"`
		ToFile bool   `json:"to_file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Store: Store{
			ProfileDir:   jsonCfg.Store.ProfileDir,
			FileName:     jsonCfg.Store.FileName,
			Backups:      jsonCfg.Store.Backups,
			BackupBase:   time.Duration(jsonCfg.Store.BackupBase),
			BackupGrowth: jsonCfg.Store.BackupGrowth,
		},
		Crypto: Crypto{
			ScryptN:        jsonCfg.Crypto.ScryptN,
			ScryptR:        jsonCfg.Crypto.ScryptR,
			ScryptP:        jsonCfg.Crypto.ScryptP,
			MasterKeyLimit: jsonCfg.Crypto.MasterKeyLimit,
		},
		Access: Access{
			TokenTTL: time.Duration(jsonCfg.Access.TokenTTL),
		},
		Log: Log{
			Level:  jsonCfg.Log.Level,
			ToFile: jsonCfg.Log.ToFile,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
