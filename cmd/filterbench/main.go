package main

import (
	"github.com/ds124wfegd/filterbench/config"
	"github.com/ds124wfegd/filterbench/internal/appServer"
	"github.com/sirupsen/logrus"
)

func main() {
	v, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %s", err.Error())
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		logrus.Fatalf("failed to parse config: %s", err.Error())
	}
	appServer.NewServer(cfg)
}
