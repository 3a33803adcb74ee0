package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/raviteja-g/optiroute/pkg/engine/routing"
	"github.com/raviteja-g/optiroute/pkg/geocoder"
	"github.com/raviteja-g/optiroute/pkg/mapsource"
	"github.com/raviteja-g/optiroute/pkg/spatialindex"
	"github.com/raviteja-g/optiroute/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

func (api *routingAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *routingAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	env := envelope{"error": message}
	if err := api.writeJSON(w, status, env, nil); err != nil {
		api.log.Error("write error response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *routingAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (api *routingAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, err.Error())
}

func (api *routingAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.String("path", r.URL.Path), zap.Error(err))
	api.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// is matches either an error chain sentinel or the wrapped code.
func is(err, sentinel error) bool {
	return errors.Is(err, sentinel) || util.ErrorCode(err) == sentinel
}

// getStatusCode maps domain errors onto HTTP statuses. upstream map data
// failures surface as 502 so clients can distinguish them from bad input.
func (api *routingAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case is(err, mapsource.ErrRegionUnavailable):
		api.errorResponse(w, r, http.StatusBadGateway, err.Error())
	case is(err, mapsource.ErrRegionTooLarge):
		api.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	case is(err, geocoder.ErrAddressNotFound),
		is(err, spatialindex.ErrNoNodeFound),
		is(err, routing.ErrNoPathFound),
		is(err, util.ErrNotFound):
		api.NotFoundResponse(w, r, err)
	case is(err, routing.ErrInvalidEndpoint),
		is(err, util.ErrBadParamInput):
		api.BadRequestResponse(w, r, err)
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := errors.New(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}
