package utils

import (
	"fmt"
	"time"
)

// NewTrackingID génère l'identifiant de suivi affiché au client, basé sur
// l'horloge. Ce n'est pas la clé primaire de la commande : un UUID la porte.
func NewTrackingID() string {
	return fmt.Sprintf("TRK%d", time.Now().UnixMilli())
}
