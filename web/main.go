package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/df07/go-weekend-raytracer/web/server"
)

var (
	port      = flag.Int("port", 8080, "Port to serve on")
	scenesDir = flag.String("scenes-dir", "scenes", "Directory searched for YAML scene files")
)

func main() {
	flag.Parse()

	glog.CopyStandardLogTo("INFO")

	webServer := server.NewServer(*port, *scenesDir)

	glog.Infof("Raytracer preview server")
	glog.Infof("Try http://localhost:%d/api/render?scene=three-spheres&width=200", *port)

	if err := webServer.Start(); err != nil {
		glog.Exitf("Error starting server: %v", err)
	}
}
