// Package prompt renders the fixed prompt templates sent to the completion
// backend. Rendering is pure: the same values always produce the same text.
package prompt

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/smartallies/incident/internal/domain"
)

var (
	ErrUnknownKind  = errors.New("unknown prompt kind")
	ErrMissingValue = errors.New("prompt value missing")
)

type Kind string

const (
	KindClassification   Kind = "classification"
	KindHumanDetails     Kind = "human_details"
	KindFacilityDetails  Kind = "facility_details"
	KindEmergencyDetails Kind = "emergency_details"
	KindSummary          Kind = "summary"
	KindAffirmation      Kind = "affirmation"
)

// Values maps placeholder names (without braces) to their replacement text.
type Values map[string]string

// Placeholder names.
const (
	ParamMessage         = "message"
	ParamHasImage        = "hasImage"
	ParamInitialMessage  = "initialMessage"
	ParamCollectedFields = "collectedFields"
	ParamUserMessage     = "userMessage"
	ParamIncidentType    = "incidentType"
	ParamReply           = "reply"
)

type template struct {
	text   string
	params []string
}

var templates = map[Kind]template{
	KindClassification: {
		text:   classificationTemplate,
		params: []string{ParamMessage, ParamHasImage},
	},
	KindHumanDetails: {
		text:   humanDetailsTemplate,
		params: []string{ParamInitialMessage, ParamCollectedFields, ParamUserMessage},
	},
	KindFacilityDetails: {
		text:   facilityDetailsTemplate,
		params: []string{ParamInitialMessage, ParamCollectedFields, ParamUserMessage, ParamHasImage},
	},
	KindEmergencyDetails: {
		text:   emergencyDetailsTemplate,
		params: []string{ParamCollectedFields, ParamUserMessage},
	},
	KindSummary: {
		text:   summaryTemplate,
		params: []string{ParamIncidentType, ParamInitialMessage, ParamCollectedFields},
	},
	KindAffirmation: {
		text:   affirmationTemplate,
		params: []string{ParamReply},
	},
}

// Params returns the placeholder names a template declares.
func Params(kind Kind) ([]string, error) {
	t, ok := templates[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return append([]string(nil), t.params...), nil
}

// Render substitutes every declared {name} in one pass. Substituted text is
// never scanned again, so a value containing "{userMessage}" stays literal.
// A declared placeholder without a value is an error; extra values are ignored.
func Render(kind Kind, values Values) (string, error) {
	t, ok := templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	pairs := make([]string, 0, 2*len(t.params))
	for _, name := range t.params {
		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("%w: %s requires {%s}", ErrMissingValue, kind, name)
		}
		pairs = append(pairs, "{"+name+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(t.text), nil
}

// DetailsKind selects the extraction template for an incident type.
func DetailsKind(t domain.IncidentType) (Kind, error) {
	switch t {
	case domain.IncidentHuman:
		return KindHumanDetails, nil
	case domain.IncidentFacility:
		return KindFacilityDetails, nil
	case domain.IncidentEmergency:
		return KindEmergencyDetails, nil
	}
	return "", fmt.Errorf("%w: no details template for incident type %q", ErrUnknownKind, t)
}

// FormatFields renders collected fields as "{k1=v1, k2=v2}" sorted by key.
func FormatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	b.WriteByte('}')
	return b.String()
}

func Classification(message string, hasImage bool) (string, error) {
	return Render(KindClassification, Values{
		ParamMessage:  message,
		ParamHasImage: strconv.FormatBool(hasImage),
	})
}

// DetailsInput carries what the extraction templates need.
type DetailsInput struct {
	Type           domain.IncidentType
	InitialMessage string
	Fields         map[string]string
	UserMessage    string
	HasImage       bool
}

func Details(in DetailsInput) (string, error) {
	kind, err := DetailsKind(in.Type)
	if err != nil {
		return "", err
	}
	return Render(kind, Values{
		ParamInitialMessage:  in.InitialMessage,
		ParamCollectedFields: FormatFields(in.Fields),
		ParamUserMessage:     in.UserMessage,
		ParamHasImage:        strconv.FormatBool(in.HasImage),
	})
}

func Summary(t domain.IncidentType, initialMessage string, fields map[string]string) (string, error) {
	return Render(KindSummary, Values{
		ParamIncidentType:    string(t),
		ParamInitialMessage:  initialMessage,
		ParamCollectedFields: FormatFields(fields),
	})
}

func Affirmation(reply string) (string, error) {
	return Render(KindAffirmation, Values{ParamReply: reply})
}
