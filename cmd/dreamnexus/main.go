// DreamNexus CLI: inspect and rebuild a game ROM's dungeon balance data.
// The heavy lifting lives in the internal packages; this wires them to a
// config file and a handful of commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/DeltaJordan/DreamNexus/internal/dbcache"
	"github.com/DeltaJordan/DreamNexus/internal/dungeon"
	"github.com/DeltaJordan/DreamNexus/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "dreamnexus",
		Usage: "inspect and rebuild dungeon balance data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "dreamnexus.toml",
				Usage: "path to the config file naming the ROM files",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "trace, debug, info, warn, error",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logrus.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list all dungeons",
				Action: runList,
			},
			{
				Name:  "show",
				Usage: "dump one dungeon as JSON, full detail",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "index", Required: true, Usage: "dungeon index"},
				},
				Action: runShow,
			},
			{
				Name:   "rebuild",
				Usage:  "flush pending state and rebuild the archive files",
				Action: runRebuild,
			},
			{
				Name:  "serve",
				Usage: "serve a read-only dungeon preview API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: "localhost:7089", Usage: "listen address"},
					&cli.StringFlag{Name: "cache", Usage: "path to a sqlite preview cache, empty to disable"},
				},
				Action: runServe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func openCollection(c *cli.Context) (*dungeon.Collection, *Config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	archives, err := cfg.openArchives()
	if err != nil {
		return nil, nil, err
	}
	return dungeon.NewCollection(archives), cfg, nil
}

func runList(c *cli.Context) error {
	collection, _, err := openCollection(c)
	if err != nil {
		return err
	}
	all, err := collection.LoadAll(false)
	if err != nil {
		return err
	}
	for _, d := range all {
		fmt.Printf("%3d  sort=%-4d category=%d floors=%-3d name=%d\n",
			d.Index, d.SortKey, d.Category, d.FloorCount, d.NameID)
	}
	return nil
}

func runShow(c *cli.Context) error {
	collection, _, err := openCollection(c)
	if err != nil {
		return err
	}
	d, err := collection.GetByIndex(c.Int("index"), false, true)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func runRebuild(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	archives, err := cfg.openArchives()
	if err != nil {
		return err
	}
	collection := dungeon.NewCollection(archives)

	if err := collection.Flush(archives); err != nil {
		return err
	}
	return writeArchives(archives, cfg)
}

func writeArchives(archives *dungeon.Archives, cfg *Config) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	data, index, err := archives.Balance.Build(context.Background())
	if err != nil {
		return err
	}
	if err := writeFile(cfg.Output.Dir, cfg.Paths.BalanceData, data); err != nil {
		return err
	}
	if err := writeFile(cfg.Output.Dir, cfg.Paths.BalanceIndex, index); err != nil {
		return err
	}

	if err := writeFile(cfg.Output.Dir, cfg.Paths.DungeonData, archives.Data.Encode()); err != nil {
		return err
	}
	if archives.Extra != nil {
		if err := writeFile(cfg.Output.Dir, cfg.Paths.Extra, archives.Extra.Encode()); err != nil {
			return err
		}
	}
	if archives.Request != nil {
		if err := writeFile(cfg.Output.Dir, cfg.Paths.RequestLevel, archives.Request.Encode()); err != nil {
			return err
		}
	}
	if archives.ItemArrange != nil {
		data, index, err := archives.ItemArrange.Build()
		if err != nil {
			return err
		}
		if err := writeFile(cfg.Output.Dir, cfg.Paths.ItemArrangeData, data); err != nil {
			return err
		}
		if err := writeFile(cfg.Output.Dir, cfg.Paths.ItemArrangeIndex, index); err != nil {
			return err
		}
	}

	logrus.Infof("archives written to %v", cfg.Output.Dir)
	return nil
}

func writeFile(dir, sourcePath string, data []byte) error {
	path := filepath.Join(dir, filepath.Base(sourcePath))
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %v", path)
}

func runServe(c *cli.Context) error {
	collection, cfg, err := openCollection(c)
	if err != nil {
		return err
	}

	var cache *dbcache.Cache
	if cachePath := c.String("cache"); cachePath != "" {
		cache, err = dbcache.Open(cachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	stat, err := os.Stat(cfg.Paths.BalanceData)
	if err != nil {
		return errors.Wrap(err, "stat balance data")
	}
	stamp := stat.ModTime().UTC().Format("2006-01-02T15:04:05Z")

	srv := server.New(collection, cache, cfg.Paths.BalanceData, stamp)

	logrus.Infof("serving dungeon previews on %v", c.String("addr"))
	return http.ListenAndServe(c.String("addr"), srv)
}
