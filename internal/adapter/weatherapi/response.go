package weatherapi

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/weather-view-service/internal/domain"
)

// WeatherAPI response types. Required fields are pointers so that a missing
// field can be told apart from a zero value.

type forecastResponse struct {
	Location *location `json:"location"`
	Current  *current  `json:"current"`
	Forecast *struct {
		ForecastDay []forecastDay `json:"forecastday"`
	} `json:"forecast"`
	Alerts *struct {
		Alert []alert `json:"alert"`
	} `json:"alerts"`
}

type location struct {
	Name      string   `json:"name"`
	Region    string   `json:"region"`
	Country   string   `json:"country"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	LocalTime string   `json:"localtime"`
}

type condition struct {
	Text string `json:"text"`
}

type current struct {
	TempC      *float64  `json:"temp_c"`
	TempF      *float64  `json:"temp_f"`
	FeelsLikeC *float64  `json:"feelslike_c"`
	FeelsLikeF *float64  `json:"feelslike_f"`
	Condition  condition `json:"condition"`
	WindKph    float64   `json:"wind_kph"`
	Humidity   int       `json:"humidity"`
	AirQuality *struct {
		PM25 *float64 `json:"pm2_5"`
	} `json:"air_quality"`
}

type forecastDay struct {
	Date string `json:"date"`
	Day  *struct {
		MaxTempC  *float64  `json:"maxtemp_c"`
		MaxTempF  *float64  `json:"maxtemp_f"`
		MinTempC  *float64  `json:"mintemp_c"`
		MinTempF  *float64  `json:"mintemp_f"`
		Condition condition `json:"condition"`
	} `json:"day"`
	Astro struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"astro"`
}

type alert struct {
	Headline  string `json:"headline"`
	Desc      string `json:"desc"`
	Effective string `json:"effective"`
	Expires   string `json:"expires"`
}

type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var errMissing = errors.New("missing required field")

func temp(c, f *float64, field string) (domain.Temperature, error) {
	if c == nil || f == nil {
		return domain.Temperature{}, fmt.Errorf("%s: %w", field, errMissing)
	}
	return domain.Temperature{C: *c, F: *f}, nil
}

// toDocument converts the wire response, rejecting anything that does not
// conform to the document shape.
func (r forecastResponse) toDocument() (domain.ForecastDocument, error) {
	if r.Location == nil {
		return domain.ForecastDocument{}, fmt.Errorf("location: %w", errMissing)
	}
	if r.Current == nil {
		return domain.ForecastDocument{}, fmt.Errorf("current: %w", errMissing)
	}
	if r.Forecast == nil {
		return domain.ForecastDocument{}, fmt.Errorf("forecast: %w", errMissing)
	}
	if r.Location.Lat == nil || r.Location.Lon == nil {
		return domain.ForecastDocument{}, fmt.Errorf("location.lat/lon: %w", errMissing)
	}

	doc := domain.ForecastDocument{
		Location: domain.Place{
			Name:      r.Location.Name,
			Region:    r.Location.Region,
			Country:   r.Location.Country,
			LocalTime: r.Location.LocalTime,
			Lat:       *r.Location.Lat,
			Lon:       *r.Location.Lon,
		},
		Alerts: []domain.Alert{},
	}

	var err error
	cur := r.Current
	doc.Current.Condition = cur.Condition.Text
	doc.Current.Humidity = cur.Humidity
	doc.Current.WindKph = cur.WindKph
	if doc.Current.Temp, err = temp(cur.TempC, cur.TempF, "current.temp"); err != nil {
		return domain.ForecastDocument{}, err
	}
	if doc.Current.FeelsLike, err = temp(cur.FeelsLikeC, cur.FeelsLikeF, "current.feelslike"); err != nil {
		return domain.ForecastDocument{}, err
	}
	if cur.AirQuality != nil && cur.AirQuality.PM25 != nil {
		pm := *cur.AirQuality.PM25
		doc.Current.PM25 = &pm
	}

	for i, fd := range r.Forecast.ForecastDay {
		if fd.Day == nil {
			return domain.ForecastDocument{}, fmt.Errorf("forecastday[%d].day: %w", i, errMissing)
		}
		day := domain.ForecastDay{
			Date:      fd.Date,
			Condition: fd.Day.Condition.Text,
			Sunrise:   fd.Astro.Sunrise,
			Sunset:    fd.Astro.Sunset,
		}
		if day.Max, err = temp(fd.Day.MaxTempC, fd.Day.MaxTempF, fmt.Sprintf("forecastday[%d].maxtemp", i)); err != nil {
			return domain.ForecastDocument{}, err
		}
		if day.Min, err = temp(fd.Day.MinTempC, fd.Day.MinTempF, fmt.Sprintf("forecastday[%d].mintemp", i)); err != nil {
			return domain.ForecastDocument{}, err
		}
		doc.ForecastDays = append(doc.ForecastDays, day)
	}

	if r.Alerts != nil {
		for _, a := range r.Alerts.Alert {
			doc.Alerts = append(doc.Alerts, domain.Alert{
				Headline:    a.Headline,
				Description: a.Desc,
				Effective:   a.Effective,
				Expires:     a.Expires,
			})
		}
	}

	if err := doc.Validate(); err != nil {
		return domain.ForecastDocument{}, err
	}
	return doc, nil
}
