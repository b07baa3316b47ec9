package main

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/DeltaJordan/DreamNexus/internal/balance"
	"github.com/DeltaJordan/DreamNexus/internal/compression"
	"github.com/DeltaJordan/DreamNexus/internal/dungeon"
)

// Config names the extracted ROM files the tool works on. Only the
// balance pair and the metadata table are required; the other tables are
// optional and simply absent from the merged view when not configured.
type Config struct {
	Paths struct {
		BalanceData      string `toml:"balance_data"`
		BalanceIndex     string `toml:"balance_index"`
		DungeonData      string `toml:"dungeon_data"`
		Extra            string `toml:"extra"`
		ItemArrangeData  string `toml:"item_arrange_data"`
		ItemArrangeIndex string `toml:"item_arrange_index"`
		RequestLevel     string `toml:"request_level"`
	} `toml:"paths"`

	Output struct {
		Dir string `toml:"dir"`
	} `toml:"output"`

	Compression struct {
		// "zstd" (default) or "raw" for plain dumps
		Codec string `toml:"codec"`
	} `toml:"compression"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if cfg.Paths.BalanceData == "" || cfg.Paths.BalanceIndex == "" {
		return nil, errors.New("config must name the balance data and index files")
	}
	if cfg.Paths.DungeonData == "" {
		return nil, errors.New("config must name the dungeon metadata file")
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	return cfg, nil
}

func (cfg *Config) codec() (compression.Codec, error) {
	switch cfg.Compression.Codec {
	case "", "zstd":
		return compression.NewZstd()
	case "raw":
		return compression.Raw{}, nil
	default:
		return nil, errors.Errorf("unknown compression codec %q", cfg.Compression.Codec)
	}
}

func (cfg *Config) openArchives() (*dungeon.Archives, error) {
	codec, err := cfg.codec()
	if err != nil {
		return nil, err
	}

	balanceIndex, err := os.ReadFile(cfg.Paths.BalanceIndex)
	if err != nil {
		return nil, errors.Wrap(err, "read balance index")
	}
	balanceData, err := os.ReadFile(cfg.Paths.BalanceData)
	if err != nil {
		return nil, errors.Wrap(err, "read balance data")
	}
	bal, err := balance.NewArchive(balanceIndex, balanceData, codec)
	if err != nil {
		return nil, err
	}

	dataBytes, err := os.ReadFile(cfg.Paths.DungeonData)
	if err != nil {
		return nil, errors.Wrap(err, "read dungeon metadata")
	}
	dataTable, err := dungeon.NewDataTable(dataBytes)
	if err != nil {
		return nil, err
	}

	archives := &dungeon.Archives{Balance: bal, Data: dataTable}

	if cfg.Paths.Extra != "" {
		buf, err := os.ReadFile(cfg.Paths.Extra)
		if err != nil {
			return nil, errors.Wrap(err, "read extra table")
		}
		if archives.Extra, err = dungeon.NewExtraTable(buf); err != nil {
			return nil, err
		}
	}
	if cfg.Paths.RequestLevel != "" {
		buf, err := os.ReadFile(cfg.Paths.RequestLevel)
		if err != nil {
			return nil, errors.Wrap(err, "read request-level table")
		}
		if archives.Request, err = dungeon.NewRequestTable(buf); err != nil {
			return nil, err
		}
	}
	if cfg.Paths.ItemArrangeData != "" && cfg.Paths.ItemArrangeIndex != "" {
		index, err := os.ReadFile(cfg.Paths.ItemArrangeIndex)
		if err != nil {
			return nil, errors.Wrap(err, "read item-arrange index")
		}
		data, err := os.ReadFile(cfg.Paths.ItemArrangeData)
		if err != nil {
			return nil, errors.Wrap(err, "read item-arrange data")
		}
		if archives.ItemArrange, err = dungeon.NewItemArrangeArchive(index, data, codec); err != nil {
			return nil, err
		}
	}

	return archives, nil
}
