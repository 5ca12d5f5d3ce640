package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/metinatakli/study-room-reservation-system/api"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/metinatakli/study-room-reservation-system/internal/stats"
)

const defaultUtilizationWindowHours = 24

func (app *Application) GetUserStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	userId, err := readIDParam(r, "userId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	statistics, err := app.statistics.UserStatistics(r.Context(), userId)
	app.statisticsResponse(w, r, statistics, err)
}

// GetSeatStatisticsHandler reports utilization over the trailing "hours"
// query value.
func (app *Application) GetSeatStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	seatId, err := readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	hours, err := readIntQuery(r, "hours", defaultUtilizationWindowHours)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	statistics, err := app.statistics.SeatStatistics(r.Context(), seatId, time.Duration(hours)*time.Hour)
	app.statisticsResponse(w, r, statistics, err)
}

func (app *Application) GetSystemStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	statistics, err := app.statistics.SystemStatistics(r.Context())
	app.statisticsResponse(w, r, statistics, err)
}

func (app *Application) GetRevenueHandler(w http.ResponseWriter, r *http.Request) {
	from, err := readTimeQuery(r, "from")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	to, err := readTimeQuery(r, "to")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if from.IsZero() || to.IsZero() {
		app.badRequestResponse(w, r, errors.New("from and to are required"))
		return
	}

	statistics, err := app.statistics.Revenue(r.Context(), from, to)
	app.statisticsResponse(w, r, statistics, err)
}

func (app *Application) statisticsResponse(w http.ResponseWriter, r *http.Request, statistics domain.Statistics, err error) {
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toStatisticsResponse(statistics), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// toStatisticsResponse renders amounts with two decimals, utilization with
// four and counts as whole numbers.
func toStatisticsResponse(statistics domain.Statistics) api.StatisticsResponse {
	resp := api.StatisticsResponse{
		Statistics: make(map[string]string, len(statistics)),
	}

	for key, value := range statistics {
		switch key {
		case stats.KeyTotalSpend, stats.KeyRevenue:
			resp.Statistics[key] = value.StringFixed(2)
		case stats.KeyUtilization:
			resp.Statistics[key] = value.StringFixed(4)
		default:
			resp.Statistics[key] = value.String()
		}
	}

	return resp
}
