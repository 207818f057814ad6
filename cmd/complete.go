package cmd

import (
	"flag"

	"github.com/etnz/longshort/docs"
	"github.com/etnz/longshort/renderer"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the subcommands and their flags, with the global
// flags of top.
func Completion(top *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(top),
	}
	for _, cmds := range Commands() {
		for _, c := range cmds {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(f)}
			if c.Name() == "topic" {
				root.Sub[c.Name()].Args = predict.Set(docs.Topics())
			}
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		flags[fl.Name] = predictor(fl)
	})
	return flags
}

func predictor(fl *flag.Flag) complete.Predictor {
	if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch fl.Name {
	case "config":
		return predict.Files("*.toml")
	case "o", "chart":
		return predict.Files("*")
	case "format":
		return predict.Set(renderer.Formats)
	case "status":
		return predict.Set{"all", "active", "closed"}
	case "side":
		return predict.Set{"c", "v", "long", "short"}
	}
	return predict.Something
}
