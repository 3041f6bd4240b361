// Package datamodel holds the SeisComP event-parameter records that the
// rest of the module walks: events, origins, picks, amplitudes and focal
// mechanisms. Records refer to each other by publicID only; nothing here
// resolves those references.
package datamodel

// WaveformStreamID identifies a data channel. An empty LocationCode means
// the stream has no location code.
type WaveformStreamID struct {
	NetworkCode  string `xml:"networkCode,attr" json:"network"`
	StationCode  string `xml:"stationCode,attr" json:"station"`
	LocationCode string `xml:"locationCode,attr" json:"location"`
	ChannelCode  string `xml:"channelCode,attr" json:"channel"`
}

// RealQuantity is a value with an optional symmetric uncertainty.
type RealQuantity struct {
	Value       float64  `xml:"value" json:"value"`
	Uncertainty *float64 `xml:"uncertainty,omitempty" json:"uncertainty,omitempty"`
}

// TimeQuantity is a point in time with an optional uncertainty in seconds.
type TimeQuantity struct {
	Value       Time     `xml:"value" json:"value"`
	Uncertainty *float64 `xml:"uncertainty,omitempty" json:"uncertainty,omitempty"`
}

// CreationInfo records who produced an object and when.
type CreationInfo struct {
	AgencyID     string `xml:"agencyID,omitempty" json:"agency_id,omitempty"`
	Author       string `xml:"author,omitempty" json:"author,omitempty"`
	CreationTime *Time  `xml:"creationTime,omitempty" json:"creation_time,omitempty"`
}

// EventDescription is a free-text label attached to an event, e.g. the
// Flinn-Engdahl region name.
type EventDescription struct {
	Text string `xml:"text" json:"text"`
	Type string `xml:"type,omitempty" json:"type,omitempty"`
}

// Event groups the origins, magnitudes and focal mechanisms that describe
// one seismic event.
type Event struct {
	PublicID                  string             `xml:"publicID,attr" json:"public_id"`
	PreferredOriginID         string             `xml:"preferredOriginID,omitempty" json:"preferred_origin_id,omitempty"`
	PreferredMagnitudeID      string             `xml:"preferredMagnitudeID,omitempty" json:"preferred_magnitude_id,omitempty"`
	PreferredFocalMechanismID string             `xml:"preferredFocalMechanismID,omitempty" json:"preferred_focal_mechanism_id,omitempty"`
	Type                      string             `xml:"type,omitempty" json:"type,omitempty"`
	Descriptions              []EventDescription `xml:"description" json:"descriptions,omitempty"`
	CreationInfo              *CreationInfo      `xml:"creationInfo,omitempty" json:"creation_info,omitempty"`
}

// Arrival associates a pick with an origin.
type Arrival struct {
	PickID       string   `xml:"pickID" json:"pick_id"`
	Phase        string   `xml:"phase,omitempty" json:"phase,omitempty"`
	Azimuth      *float64 `xml:"azimuth,omitempty" json:"azimuth,omitempty"`
	Distance     *float64 `xml:"distance,omitempty" json:"distance,omitempty"`
	TimeResidual *float64 `xml:"timeResidual,omitempty" json:"time_residual,omitempty"`
	Weight       *float64 `xml:"weight,omitempty" json:"weight,omitempty"`
}

// OriginQuality summarises the phase data an origin was located with.
type OriginQuality struct {
	AssociatedPhaseCount *int     `xml:"associatedPhaseCount,omitempty" json:"associated_phase_count,omitempty"`
	UsedPhaseCount       *int     `xml:"usedPhaseCount,omitempty" json:"used_phase_count,omitempty"`
	UsedStationCount     *int     `xml:"usedStationCount,omitempty" json:"used_station_count,omitempty"`
	StandardError        *float64 `xml:"standardError,omitempty" json:"standard_error,omitempty"`
	AzimuthalGap         *float64 `xml:"azimuthalGap,omitempty" json:"azimuthal_gap,omitempty"`
}

// Magnitude is a network magnitude computed for an origin.
type Magnitude struct {
	PublicID     string       `xml:"publicID,attr" json:"public_id"`
	Magnitude    RealQuantity `xml:"magnitude" json:"magnitude"`
	Type         string       `xml:"type,omitempty" json:"type,omitempty"`
	StationCount *int         `xml:"stationCount,omitempty" json:"station_count,omitempty"`
}

// Origin is a hypocentre solution. Depth is in kilometres.
type Origin struct {
	PublicID         string           `xml:"publicID,attr" json:"public_id"`
	Time             TimeQuantity     `xml:"time" json:"time"`
	Latitude         RealQuantity     `xml:"latitude" json:"latitude"`
	Longitude        RealQuantity     `xml:"longitude" json:"longitude"`
	Depth            *RealQuantity    `xml:"depth,omitempty" json:"depth,omitempty"`
	MethodID         string           `xml:"methodID,omitempty" json:"method_id,omitempty"`
	EarthModelID     string           `xml:"earthModelID,omitempty" json:"earth_model_id,omitempty"`
	Quality          *OriginQuality   `xml:"quality,omitempty" json:"quality,omitempty"`
	EvaluationMode   EvaluationMode   `xml:"evaluationMode,omitempty" json:"evaluation_mode,omitempty"`
	EvaluationStatus EvaluationStatus `xml:"evaluationStatus,omitempty" json:"evaluation_status,omitempty"`
	CreationInfo     *CreationInfo    `xml:"creationInfo,omitempty" json:"creation_info,omitempty"`
	Arrivals         []Arrival        `xml:"arrival" json:"arrivals,omitempty"`
	Magnitudes       []Magnitude      `xml:"magnitude" json:"magnitudes,omitempty"`
}

// DepthKm returns the origin depth, or 0 when the origin has none.
func (o *Origin) DepthKm() float64 {
	if o.Depth == nil {
		return 0
	}
	return o.Depth.Value
}

// Pick is an arrival-time measurement on a single stream.
type Pick struct {
	PublicID         string           `xml:"publicID,attr" json:"public_id"`
	Time             TimeQuantity     `xml:"time" json:"time"`
	WaveformID       WaveformStreamID `xml:"waveformID" json:"waveform_id"`
	FilterID         string           `xml:"filterID,omitempty" json:"filter_id,omitempty"`
	MethodID         string           `xml:"methodID,omitempty" json:"method_id,omitempty"`
	PhaseHint        string           `xml:"phaseHint,omitempty" json:"phase_hint,omitempty"`
	EvaluationMode   EvaluationMode   `xml:"evaluationMode,omitempty" json:"evaluation_mode,omitempty"`
	EvaluationStatus EvaluationStatus `xml:"evaluationStatus,omitempty" json:"evaluation_status,omitempty"`
	CreationInfo     *CreationInfo    `xml:"creationInfo,omitempty" json:"creation_info,omitempty"`
}

// Amplitude is a signal amplitude measured around a pick.
type Amplitude struct {
	PublicID      string           `xml:"publicID,attr" json:"public_id"`
	Type          string           `xml:"type,omitempty" json:"type,omitempty"`
	Amplitude     *RealQuantity    `xml:"amplitude,omitempty" json:"amplitude,omitempty"`
	SNR           *float64         `xml:"snr,omitempty" json:"snr,omitempty"`
	PickID        string           `xml:"pickID,omitempty" json:"pick_id,omitempty"`
	WaveformID    WaveformStreamID `xml:"waveformID" json:"waveform_id"`
	MagnitudeHint string           `xml:"magnitudeHint,omitempty" json:"magnitude_hint,omitempty"`
	CreationInfo  *CreationInfo    `xml:"creationInfo,omitempty" json:"creation_info,omitempty"`
}

// NodalPlane is one fault-plane solution in degrees.
type NodalPlane struct {
	Strike RealQuantity `xml:"strike" json:"strike"`
	Dip    RealQuantity `xml:"dip" json:"dip"`
	Rake   RealQuantity `xml:"rake" json:"rake"`
}

// NodalPlanes holds both planes of a double-couple solution.
type NodalPlanes struct {
	NodalPlane1 *NodalPlane `xml:"nodalPlane1,omitempty" json:"nodal_plane_1,omitempty"`
	NodalPlane2 *NodalPlane `xml:"nodalPlane2,omitempty" json:"nodal_plane_2,omitempty"`
}

// FocalMechanism describes the fault orientation of an event.
type FocalMechanism struct {
	PublicID           string           `xml:"publicID,attr" json:"public_id"`
	TriggeringOriginID string           `xml:"triggeringOriginID,omitempty" json:"triggering_origin_id,omitempty"`
	NodalPlanes        *NodalPlanes     `xml:"nodalPlanes,omitempty" json:"nodal_planes,omitempty"`
	MethodID           string           `xml:"methodID,omitempty" json:"method_id,omitempty"`
	EvaluationMode     EvaluationMode   `xml:"evaluationMode,omitempty" json:"evaluation_mode,omitempty"`
	EvaluationStatus   EvaluationStatus `xml:"evaluationStatus,omitempty" json:"evaluation_status,omitempty"`
	CreationInfo       *CreationInfo    `xml:"creationInfo,omitempty" json:"creation_info,omitempty"`
}
