package main

import (
	"context"

	"github.com/zan8in/ipsweep/internal/runner"
	"github.com/zan8in/ipsweep/pkg/config"
	"github.com/zan8in/ipsweep/pkg/log"
)

func main() {
	options, err := config.NewOptions()
	if err != nil {
		log.Log().Fatal(err.Error())
	}

	r, err := runner.New(options)
	if err != nil {
		log.Log().Fatal(err.Error())
	}

	if _, err := r.Run(context.Background()); err != nil {
		log.Log().Fatal(err.Error())
	}
}
