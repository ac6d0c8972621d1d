package config

import (
	"github.com/zan8in/gologger"

	"github.com/zan8in/ipsweep/pkg/log"
)

const Version = "0.1.0"

func ShowBanner() {
	gologger.Print().Msgf("\n|\tI P S W E E P\t>\t%s\n\n", log.LogColor.Banner(Version))
}
