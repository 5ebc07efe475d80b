package gate

import (
	"math/rand"
	"time"
)

// Denial responses carry a themed message instead of a technical reason;
// the real cause only goes to logs and the audit trail. The weekday
// quotes are a branding quirk the web clients already display verbatim,
// so they must stay stable.
const (
	mondayQuote  = "El ayer es historia, el mañana es un misterio, pero el hoy es un regalo. Por eso se le llama presente."
	tuesdayQuote = "There is no charge for awesomeness... or attractiveness."
)

var rejectionPool = []string{
	"Un panda guardián custodia esta puerta y tú no traes invitación.",
	"El panda dice que no. Y el panda nunca se equivoca.",
	"Skadoosh. Hasta aquí llegaste.",
	"Esta ruta está protegida por el Guerrero Dragón.",
	"Ni con escalera de bambú pasas por aquí.",
	"The panda has reviewed your request and respectfully disagrees.",
	"Inner peace... and outer denial.",
}

// rejectionMessage picks the body for a denied request. Monday and
// Tuesday serve fixed quotes; every other day draws from the pool.
func rejectionMessage(now time.Time) string {
	switch now.Weekday() {
	case time.Monday:
		return mondayQuote
	case time.Tuesday:
		return tuesdayQuote
	default:
		return rejectionPool[rand.Intn(len(rejectionPool))]
	}
}
