package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FlavioCFOliveira/toynn/internal/activations"
	"github.com/FlavioCFOliveira/toynn/internal/net"
)

func parseCols(s string) ([]int, error) {
	var cols []int
	for _, f := range strings.Split(s, ",") {
		c, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("bad column %q: %w", f, err)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func main() {
	data := flag.String("data", "", "CSV dataset")
	targets := flag.String("targets", "", "comma separated target column indices")
	header := flag.Bool("header", true, "skip the first CSV line")
	normalize := flag.Bool("normalize", true, "min-max normalize the inputs")
	split := flag.Float64("split", 0.8, "fraction of rows used for training")
	hidden := flag.Int("hidden", 8, "hidden layer size")
	epochs := flag.Int("epochs", 1000, "training epochs")
	lr := flag.Float64("lr", 0.1, "learning rate")
	act := flag.String("act", "sigmoid", "activation function (sigmoid or tanh)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	patience := flag.Int("patience", 0, "early stopping patience in epochs (0 disables)")
	model := flag.String("model", "", "resume from this model instead of a fresh network")
	out := flag.String("out", "model.txt", "best model checkpoint")
	logFile := flag.String("log", "", "CSV training log")
	flag.Parse()

	if *data == "" || *targets == "" {
		flag.Usage()
		os.Exit(2)
	}
	targetCols, err := parseCols(*targets)
	if err != nil {
		log.Fatalf("invalid -targets: %v", err)
	}

	dataset, err := net.LoadCSV(*data, targetCols, *header)
	if err != nil {
		log.Fatalf("Failed to load CSV: %v", err)
	}
	if *normalize {
		if err := dataset.Normalize(); err != nil {
			log.Fatalf("Failed to normalize: %v", err)
		}
	}
	trainSet, testSet := dataset.Split(*split)
	log.Printf("loaded %d samples: %d train, %d test", dataset.Len(), trainSet.Len(), testSet.Len())

	var network *net.Network
	if *model != "" {
		if network, err = net.Load(*model); err != nil {
			log.Fatalf("Error loading model: %v", err)
		}
	} else {
		activation, err := activations.Lookup(*act)
		if err != nil {
			log.Fatalf("invalid -act: %v", err)
		}
		inputs := dataset.Inputs[0].Rows()
		network = net.New(inputs, *hidden, len(targetCols), rand.New(rand.NewSource(*seed)))
		network.SetActivation(activation)
	}
	network.SetLearningRate(*lr)
	network.Summary(log.Writer())

	callbacks := []net.Callback{
		net.Logger{Interval: max(1, *epochs/20)},
		net.NewModelCheckpoint(*out),
	}
	if *patience > 0 {
		callbacks = append(callbacks, net.NewEarlyStopping(*patience, 1e-6))
	}
	if *logFile != "" {
		callbacks = append(callbacks, net.NewCSVLogger(*logFile, false))
	}

	loss, err := network.Fit(trainSet, *epochs, callbacks...)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	log.Printf("final training loss: %.6f", loss)

	if testSet.Len() > 0 {
		testLoss, err := network.Evaluate(testSet)
		if err != nil {
			log.Fatalf("evaluation failed: %v", err)
		}
		log.Printf("test loss: %.6f", testLoss)
	}
}
