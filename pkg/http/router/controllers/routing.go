package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/engine/routing"
	"github.com/raviteja-g/optiroute/pkg/geo"
	helper "github.com/raviteja-g/optiroute/pkg/http/router/routerhelper"
	"github.com/raviteja-g/optiroute/pkg/http/usecases"
	"github.com/raviteja-g/optiroute/pkg/metrics"
	"github.com/raviteja-g/optiroute/pkg/traffic"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	met            *metrics.Metrics
	log            *zap.Logger
}

func New(routingService RoutingService, met *metrics.Metrics, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		met:            met,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.computeRoutes)
}

func (api *routingAPI) computeRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request computeRoutesRequest
		err     error
	)

	query := r.URL.Query()

	byCoordinate := query.Get("origin_lat") != "" || query.Get("origin_lon") != "" ||
		query.Get("destination_lat") != "" || query.Get("destination_lon") != ""

	if byCoordinate {
		request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
		if err != nil {
			api.countRequest("client_error")
			api.BadRequestResponse(w, r, errors.New("origin_lat is required and must be a valid float"))
			return
		}
		request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
		if err != nil {
			api.countRequest("client_error")
			api.BadRequestResponse(w, r, errors.New("origin_lon is required and must be a valid float"))
			return
		}
		request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
		if err != nil {
			api.countRequest("client_error")
			api.BadRequestResponse(w, r, errors.New("destination_lat is required and must be a valid float"))
			return
		}
		request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
		if err != nil {
			api.countRequest("client_error")
			api.BadRequestResponse(w, r, errors.New("destination_lon is required and must be a valid float"))
			return
		}
	} else {
		request.OriginAddress = query.Get("origin_address")
		request.DestinationAddress = query.Get("destination_address")
		request.Area = query.Get("area")
		if request.OriginAddress == "" || request.DestinationAddress == "" {
			api.countRequest("client_error")
			api.BadRequestResponse(w, r, errors.New("either origin/destination coordinates or origin_address and destination_address are required"))
			return
		}
	}
	request.TrafficMode = query.Get("traffic_mode")

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.countRequest("client_error")
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	ucReq := usecases.RouteRequest{
		OriginAddress:      request.OriginAddress,
		DestinationAddress: request.DestinationAddress,
		Area:               request.Area,
		TrafficMode:        traffic.ParseMode(request.TrafficMode),
	}
	if byCoordinate {
		origin := geo.NewCoordinate(request.OriginLat, request.OriginLon)
		destination := geo.NewCoordinate(request.DestinationLat, request.DestinationLon)
		ucReq.Origin = &origin
		ucReq.Destination = &destination
	}

	summaries, err := api.routingService.ComputeRoutes(r.Context(), ucReq)
	if err != nil {
		api.countRequest("error")
		api.getStatusCode(w, r, err)
		return
	}

	if allEmpty(summaries) {
		api.countRequest("no_path")
		api.getStatusCode(w, r, routing.ErrNoPathFound)
		return
	}

	headers := make(http.Header)

	api.countRequest("ok")
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewComputeRoutesResponse(summaries)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) countRequest(outcome string) {
	if api.met == nil {
		return
	}
	api.met.RequestsTotal.WithLabelValues(outcome).Inc()
}

func allEmpty(summaries []*da.RouteSummary) bool {
	for _, s := range summaries {
		if s != nil {
			return false
		}
	}
	return true
}
