package models

type PanelState struct {
	Collapsed  bool `json:"c"`
	Confirming bool `json:"f"`
	Editing    bool `json:"e"`
}
