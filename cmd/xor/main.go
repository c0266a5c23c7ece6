package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/FlavioCFOliveira/toynn/internal/activations"
	"github.com/FlavioCFOliveira/toynn/internal/net"
)

func main() {
	hidden := flag.Int("hidden", 4, "hidden layer size")
	epochs := flag.Int("epochs", 10000, "training epochs")
	lr := flag.Float64("lr", 0.5, "learning rate")
	act := flag.String("act", "sigmoid", "activation function (sigmoid or tanh)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	out := flag.String("out", "xor_network.txt", "model file")
	flag.Parse()

	fmt.Println("=== XOR Training Example ===")

	activation, err := activations.Lookup(*act)
	if err != nil {
		log.Fatalf("invalid -act: %v", err)
	}

	// XOR cannot be solved without the hidden layer
	network := net.New(2, *hidden, 1, rand.New(rand.NewSource(*seed)))
	network.SetActivation(activation)
	network.SetLearningRate(*lr)

	trainX := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	trainY := [][]float64{{0}, {1}, {1}, {0}}
	if activation.Name() == "tanh" {
		trainY = [][]float64{{-1}, {1}, {1}, {-1}}
	}
	dataset, err := net.NewDataset(trainX, trainY)
	if err != nil {
		log.Fatal(err)
	}

	network.Summary(log.Writer())
	loss, err := network.Fit(dataset, *epochs, net.Logger{Interval: *epochs / 10})
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	fmt.Printf("Final loss: %.6f\n", loss)

	fmt.Println("\nTesting trained network:")
	for i := range dataset.Inputs {
		pred, err := network.Predict(dataset.Inputs[i])
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Input: %v, Predicted: %.4f, Target: %v\n", trainX[i], pred.At(0, 0), trainY[i][0])
	}

	fmt.Println("\nSaving network to disk...")
	if err := network.Save(*out); err != nil {
		log.Fatalf("Error saving network: %v", err)
	}

	loaded, err := net.Load(*out)
	if err != nil {
		log.Fatalf("Error loading network: %v", err)
	}

	fmt.Println("\nVerifying loaded network:")
	allMatch := true
	for i := range dataset.Inputs {
		original, err := network.Predict(dataset.Inputs[i])
		if err != nil {
			log.Fatal(err)
		}
		reloaded, err := loaded.Predict(dataset.Inputs[i])
		if err != nil {
			log.Fatal(err)
		}
		match := "OK"
		if math.Abs(original.At(0, 0)-reloaded.At(0, 0)) > 1e-12 {
			match = "MISMATCH"
			allMatch = false
		}
		fmt.Printf("Input: %v, Original: %.4f, Loaded: %.4f [%s]\n",
			trainX[i], original.At(0, 0), reloaded.At(0, 0), match)
	}

	if !allMatch {
		log.Fatal("FAILURE: predictions differ between original and loaded network")
	}
	fmt.Println("\nSUCCESS: all predictions match between original and loaded network")
}
