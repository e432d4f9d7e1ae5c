// Command blendcli composites a stack of PNG/JPEG files from disk and
// writes the result to a file, driving blendkit.Blend from the command
// line. Grounded on _examples/tmpim-juroku/cmd/juroku/juroku.go's flag
// parsing and log.SetFlags(0)/os.Exit control flow; concurrent input
// loading is grounded on the teacher's transitively-required
// golang.org/x/sync, exercised here via errgroup.
package main

import (
	"flag"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tmpim/blendkit"
)

var (
	outputPath  = flag.String("o", "output.png", "set location of output file")
	format      = flag.String("f", "png", "output format: png, jpeg, or jpg")
	quality     = flag.Int("q", 0, "JPEG quality 0-100, or PNG palette size 2-256 (0 disables quantization)")
	width       = flag.Int("w", 0, "canvas width (0 derives from the first visible layer)")
	height      = flag.Int("h", 0, "canvas height (0 derives from the first visible layer)")
	matte       = flag.String("matte", "", "background color as #RRGGBB or #RRGGBBAA")
	mode        = flag.String("mode", "octree", "PNG8 quantizer: octree or hextree")
	encoder     = flag.String("encoder", "", "PNG encoder backend: default or miniz")
	compression = flag.Int("compression", 0, "PNG compression level (0 picks the backend default)")
	reencode    = flag.Bool("reencode", false, "force the full decode+encode path")
)

// layerArg is one "path[@x,y]" positional argument.
type layerArg struct {
	path string
	x, y int
}

func parseLayerArg(s string) layerArg {
	path := s
	x, y := 0, 0

	if i := strings.LastIndex(s, "@"); i != -1 {
		path = s[:i]
		coords := strings.SplitN(s[i+1:], ",", 2)
		if len(coords) == 2 {
			x, _ = strconv.Atoi(coords[0])
			y, _ = strconv.Atoi(coords[1])
		}
	}

	return layerArg{path: path, x: x, y: y}
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	if flag.NArg() == 0 {
		log.Println("Usage: blendcli [options] layer1.png[@x,y] layer2.png[@x,y] ...")
		log.Println("")
		log.Println("blendcli composites an ordered stack of PNG/JPEG layers into a single")
		log.Println("output image (bottom of the stack first, top last).")
		log.Println("")
		log.Println("Options:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	args := make([]layerArg, flag.NArg())
	for i, a := range flag.Args() {
		args[i] = parseLayerArg(a)
	}

	buffers := make([][]byte, len(args))

	var g errgroup.Group
	for i, a := range args {
		i, a := i, a
		g.Go(func() error {
			buf, err := ioutil.ReadFile(a.path)
			if err != nil {
				return err
			}
			buffers[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Println("Failed to load a layer:", err)
		os.Exit(1)
	}

	layers := make([]blendkit.LayerInput, len(args))
	for i, a := range args {
		layers[i] = blendkit.LayerInput{Buffer: buffers[i], X: a.x, Y: a.y}
	}

	opts := &blendkit.Options{
		Format:      *format,
		Quality:     *quality,
		Reencode:    *reencode,
		Width:       *width,
		Height:      *height,
		Matte:       *matte,
		Mode:        *mode,
		Encoder:     *encoder,
		Compression: *compression,
	}

	start := time.Now()

	done := make(chan error, 1)
	err := blendkit.Blend(layers, opts, func(err error, output []byte, warnings []string) {
		if err != nil {
			done <- err
			return
		}

		for _, w := range warnings {
			log.Println("Warning:", w)
		}

		done <- ioutil.WriteFile(*outputPath, output, 0644)
	})
	if err != nil {
		log.Println("Failed to blend:", err)
		os.Exit(1)
	}

	if err := <-done; err != nil {
		log.Println("Failed to blend:", err)
		os.Exit(1)
	}

	log.Println("Done! That took " + time.Since(start).String() + ".")
	log.Printf("Output written to %q.\n", *outputPath)
}
