package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ParseFlags parses configuration flags from args and returns the resulting
// partial config together with the remaining positional arguments.
//
// Flags:
//
//	-p/-profile profile directory
//	-file document file name
//	-backups number of backup slots
//	-backup-base backup threshold base (e.g., "5m")
//	-backup-growth backup threshold growth factor
//	-scrypt-n, -scrypt-r, -scrypt-p passphrase stretching cost
//	-master-key-limit master key generation ceiling
//	-token-ttl access token lifetime (e.g., "168h")
//	-log-level log level name
//	-log-file write logs into the profile directory
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, []string, error) {
	var (
		profileDir     string
		fileName       string
		backups        int
		backupBase     time.Duration
		backupGrowth   float64
		scryptN        int
		scryptR        int
		scryptP        int
		masterKeyLimit int
		tokenTTL       time.Duration
		logLevel       string
		logToFile      bool
		jsonConfigPath string
	)

	fs := flag.NewFlagSet("vaultctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&profileDir, "p", "", "Profile directory")
	fs.StringVar(&profileDir, "profile", "", "Profile directory (alias)")
	fs.StringVar(&fileName, "file", "", "Document file name")
	fs.IntVar(&backups, "backups", 0, "Number of backup slots")
	fs.DurationVar(&backupBase, "backup-base", 0, "Backup threshold base (e.g., 5m)")
	fs.Float64Var(&backupGrowth, "backup-growth", 0, "Backup threshold growth factor")
	fs.IntVar(&scryptN, "scrypt-n", 0, "scrypt CPU/memory cost")
	fs.IntVar(&scryptR, "scrypt-r", 0, "scrypt block size")
	fs.IntVar(&scryptP, "scrypt-p", 0, "scrypt parallelization")
	fs.IntVar(&masterKeyLimit, "master-key-limit", 0, "Master key generation ceiling")
	fs.DurationVar(&tokenTTL, "token-ttl", 0, "Access token lifetime (e.g., 168h)")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.BoolVar(&logToFile, "log-file", false, "Write logs into the profile directory")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Store: Store{
			ProfileDir:   profileDir,
			FileName:     fileName,
			Backups:      backups,
			BackupBase:   backupBase,
			BackupGrowth: backupGrowth,
		},
		Crypto: Crypto{
			ScryptN:        scryptN,
			ScryptR:        scryptR,
			ScryptP:        scryptP,
			MasterKeyLimit: masterKeyLimit,
		},
		Access: Access{
			TokenTTL: tokenTTL,
		},
		Log: Log{
			Level:  logLevel,
			ToFile: logToFile,
		},
		JSONFilePath: jsonConfigPath,
	}, fs.Args(), nil
}
