package main

import (
	"context"
	"flag"

	"github.com/raviteja-g/optiroute/pkg/costfunction"
	"github.com/raviteja-g/optiroute/pkg/engine/routing"
	"github.com/raviteja-g/optiroute/pkg/geocoder"
	"github.com/raviteja-g/optiroute/pkg/http"
	"github.com/raviteja-g/optiroute/pkg/http/usecases"
	"github.com/raviteja-g/optiroute/pkg/logger"
	"github.com/raviteja-g/optiroute/pkg/mapsource"
	"github.com/raviteja-g/optiroute/pkg/metrics"
	"github.com/raviteja-g/optiroute/pkg/traffic"
	"github.com/raviteja-g/optiroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("use_rate_limit", false, "enable the per client rate limiter")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}

	viper.SetDefault("OVERPASS_ENDPOINT", "https://overpass-api.de/api/interpreter")
	viper.SetDefault("OVERPASS_TIMEOUT", "60s")
	viper.SetDefault("GEOCODER_ENDPOINT", "https://nominatim.openstreetmap.org/search")
	viper.SetDefault("GEOCODER_USER_AGENT", "optiroute/1.0")
	viper.SetDefault("GEOCODER_TIMEOUT", "10s")
	viper.SetDefault("TRAFFIC_FEED_TIMEOUT", "5s")
	viper.SetDefault("TRAFFIC_FEED_RPS", 5.0)
	viper.SetDefault("REGION_CACHE_TTL", "10m")
	viper.SetDefault("REGION_MAX_NODES", 400000)
	viper.SetDefault("REGION_MAX_EDGES", 1000000)
	viper.SetDefault("SNAP_MAX_DISTANCE_METERS", 300.0)
	viper.SetDefault("SPATIAL_INDEX_PAD_METERS", 30.0)

	source := mapsource.NewOverpassSource(
		viper.GetString("OVERPASS_ENDPOINT"),
		viper.GetDuration("OVERPASS_TIMEOUT"),
		logger,
	)
	builder := mapsource.NewBuilder(source,
		viper.GetInt("REGION_MAX_NODES"),
		viper.GetInt("REGION_MAX_EDGES"),
		logger,
	)
	regions := mapsource.NewRegionCache(builder, viper.GetDuration("REGION_CACHE_TTL"), logger)

	var feed traffic.CongestionFeed
	if key := viper.GetString("TRAFFIC_FEED_API_KEY"); key != "" {
		feed = traffic.NewFlowFeedClient(
			viper.GetString("TRAFFIC_FEED_ENDPOINT"),
			key,
			viper.GetDuration("TRAFFIC_FEED_TIMEOUT"),
			viper.GetFloat64("TRAFFIC_FEED_RPS"),
		)
	} else {
		logger.Info("no traffic feed api key configured, live mode falls back to simulated scores")
	}
	annotator := traffic.NewAnnotator(feed, logger)

	met := metrics.New()
	routingEngine := routing.NewEngine(annotator, costfunction.NewBuilder(), met, logger)

	nominatim := geocoder.NewNominatimClient(
		viper.GetString("GEOCODER_ENDPOINT"),
		viper.GetString("GEOCODER_USER_AGENT"),
		viper.GetDuration("GEOCODER_TIMEOUT"),
	)

	routingService := usecases.NewRoutingService(logger, regions, routingEngine, nominatim,
		viper.GetFloat64("SNAP_MAX_DISTANCE_METERS"),
		viper.GetFloat64("SPATIAL_INDEX_PAD_METERS"),
	)

	api := http.NewServer(logger)
	ctx, cleanup := NewContext()

	if _, err := api.Use(ctx, logger, *useRateLimit, routingService, met); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()

	logger.Info("optiroute engine server stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, func() { cancel() }
}
