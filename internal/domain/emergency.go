package domain

// EmergencyNumbers are shown verbatim to users in an emergency.
type EmergencyNumbers struct {
	Police    string `yaml:"police"`
	Ambulance string `yaml:"ambulance"`
	Fire      string `yaml:"fire"`
	Samaritan string `yaml:"samaritan"`
}

// AsMap returns the numbers keyed the way response metadata exposes them.
func (n EmergencyNumbers) AsMap() map[string]string {
	return map[string]string{
		"police":    n.Police,
		"ambulance": n.Ambulance,
		"fire":      n.Fire,
		"samaritan": n.Samaritan,
	}
}
