package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/motionseq/config"
	"github.com/milk9111/motionseq/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	scriptPath := flag.String("script", "", "tengo script driving the scene")
	debug := flag.Bool("debug", false, "show controller state for every actor")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	log := logging.WithComponent("viewer")
	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *scriptPath != "" {
		cfg.Script = *scriptPath
	}
	logging.Reconfigure(logging.Config{Level: cfg.Log.Level, Pretty: true})

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("motion sequencer")
	ebiten.SetTPS(cfg.TickRate)

	game, err := NewGame(cfg, *debug)
	if err != nil {
		log.Fatal().Err(err).Msg("build scene")
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("viewer stopped")
	}
}
