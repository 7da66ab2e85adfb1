// Package domain models weather lookups against the WeatherAPI.com forecast
// endpoint and the presentation rules derived from its documents.
//
// # Lookup Queries
//
// The provider's q parameter accepts either a free-text place ("Paris",
// "New York") or a "lat,lon" pair in decimal degrees ("48.8566,2.3522").
// Free text is trimmed before sending; an empty string is an input error and is
// never sent. Coordinates must be finite and inside ±90/±180.
//
// # Forecast Documents
//
// A forecast request asks for days=3, aqi=yes and alerts=yes in the selected
// language. Temperatures arrive in both Celsius and Fahrenheit and are stored
// as-is; the display unit only picks one of the two, so toggling it never
// requires another request.
//
// Air quality comes from the current block's "air_quality" object. Only the
// PM2.5 reading ("pm2_5", µg/m³) is kept, and it is optional.
//
// Sunrise and sunset are provider-formatted local strings such as "06:12 AM"
// and are passed through untouched.
//
// # Condition Classification
//
// Condition text ("Patchy light rain with thunder") is matched
// case-insensitively against ordered keyword rules; the first matching rule
// wins:
//
//	Icon:       rain → snow  → cloud → sun|clear → thermometer
//	Background: rain → cloud → snow  → sun|clear → default
//
// So "Light rain and snow" is rain for both, while "Cloudy with snow showers"
// is a snowflake icon on a cloud background.
//
// # Errors
//
// Three kinds reach the user, each as a single message: [InputError] for an
// empty search, [ProviderError] for a failed lookup and [LocationError] when
// device geolocation is denied. [Reason] maps any of them to display text.
package domain
