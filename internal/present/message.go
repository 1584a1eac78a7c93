package present

// Kind tells renderers how to style a message.
type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
)

const (
	MsgEmptyCity       = "Please enter a city name."
	MsgInvalidCoords   = "Invalid coordinates."
	MsgCityNotFound    = "City not found. Check spelling."
	MsgFetchFailed     = "Error fetching weather. See logs."
	MsgLocationFailed  = "Error fetching weather for current location."
	MsgGeoUnsupported  = "Geolocation not supported."
	MsgGeoDenied       = "Location permission denied."
	MsgGeoUnavailable  = "Location unavailable."
	MsgLoading         = "Loading..."
	MsgLocating        = "Getting location..."
	MsgLoadingLocation = "Loading weather..."
	MsgToggleNoSearch  = "Toggle unit: search a city to update units."
)
