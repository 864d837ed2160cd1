package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"phc/calculator"
	"phc/material"
	"phc/output"
	"phc/postprocess"
	"phc/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type app struct {
	cfg     calculator.Config
	netcdf  string
	csv     string
	addr    string
	history int
}

func main() {
	confPath := flag.String("conf", "conf/config.ini", "ini configuration file")
	serve := flag.Bool("serve", false, "serve sweeps over websocket instead of running one")
	netcdf := flag.String("netcdf", "", "NetCDF output, overrides [output] netcdf")
	csv := flag.String("csv", "", "gap table CSV output, overrides [output] csv")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	a, err := load(*confPath)
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}
	if *netcdf != "" {
		a.netcdf = *netcdf
	}
	if *csv != "" {
		a.csv = *csv
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
		s := server.NewServer(a.addr, upgrader, a.cfg, a.history)
		if err := s.Serve(ctx); err != nil {
			log.WithError(err).Fatal("ListenAndServe")
		}
		return
	}

	if err := run(ctx, a); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("sweep interrupted, partial results written")
			return
		}
		log.WithError(err).Fatal("sweep failed")
	}
}

func load(path string) (app, error) {
	file, err := ini.Load(path)
	if err != nil {
		return app{}, err
	}
	catalog := material.DefaultCatalog()
	if name := file.Section("material").Key("catalog").String(); name != "" {
		if !filepath.IsAbs(name) {
			name = filepath.Join(filepath.Dir(path), name)
		}
		if catalog, err = material.LoadCatalog(name); err != nil {
			return app{}, err
		}
	}
	cfg, err := calculator.ConfigFromFile(file, catalog)
	if err != nil {
		return app{}, err
	}
	log.WithField("path", path).Info("config loaded")
	return app{
		cfg:     cfg,
		netcdf:  file.Section("output").Key("netcdf").String(),
		csv:     file.Section("output").Key("csv").String(),
		addr:    file.Section("server").Key("addr").MustString(":9000"),
		history: file.Section("server").Key("history").MustInt(64),
	}, nil
}

// run performs one sweep. On interruption the partial result is still
// stored and the context error returned.
func run(ctx context.Context, a app) error {
	sweep, err := calculator.NewSweep(a.cfg)
	if err != nil {
		return err
	}
	var store *output.NetCDF
	if a.netcdf != "" {
		if store, err = output.CreateNetCDF(a.netcdf, sweep.Layout()); err != nil {
			return err
		}
		sweep.AddSink(store)
	}

	res, runErr := sweep.Run(ctx)
	if store != nil {
		if err := store.Close(res); err != nil {
			return err
		}
	}
	if res == nil {
		return runErr
	}

	edges := postprocess.EstimateGapEdges(res, a.cfg.Na, a.cfg.Nb)
	for _, e := range edges {
		log.WithFields(log.Fields{
			"radius": e.Radius,
			"kz":     e.Kz,
			"lower":  e.Lower,
			"bottom": e.Bottom.Frequency,
			"top":    e.Top.Frequency,
			"theta":  e.Top.Theta,
			"regime": e.Top.Regime.String(),
		}).Debug("band gap")
	}
	log.WithField("gaps", len(edges)).Info("band gaps extracted")

	if a.csv != "" {
		if err := output.SaveGapCSV(a.csv, edges); err != nil {
			return err
		}
		log.WithField("path", a.csv).Info("gap table written")
	}
	return runErr
}
