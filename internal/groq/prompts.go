package groq

import (
	"fmt"

	"github.com/edgard/climabot/internal/weather"
)

// noCitySentinel is the literal token the extraction prompt asks the model to
// answer with when the question mentions no city. It never leaves this package.
const noCitySentinel = "NINGUNA"

// extractCityPrompt embeds the user question verbatim and constrains the model
// to answer with a bare city name or the sentinel.
const extractCityPrompt = "Extrae SOLAMENTE el nombre de la ciudad de esta pregunta sobre clima. " +
	"Si no hay ciudad, responde 'NINGUNA'. " +
	"Pregunta: %s\n" +
	"Ciudad:"

// synthesizePrompt embeds the original question and the plain-text rendering
// of the weather reading, and asks for a conversational answer.
const synthesizePrompt = "Eres un asistente meteorológico amigable. Responde a la pregunta del usuario de forma natural y conversacional.\n\n" +
	"Pregunta: %s\n\n" +
	"Datos del clima:\n%s\n\n" +
	"Respuesta (usa emojis apropiados):"

// FormatReading renders a weather reading for the synthesis prompt: one
// decimal place for temperatures and wind speed, integer percent for humidity.
func FormatReading(r *weather.Reading) string {
	return fmt.Sprintf(
		"Ciudad: %s\n"+
			"Temperatura: %.1f°C\n"+
			"Sensación térmica: %.1f°C\n"+
			"Descripción: %s\n"+
			"Humedad: %d%%\n"+
			"Viento: %.1f m/s",
		r.City, r.TemperatureC, r.FeelsLikeC, r.Description, r.HumidityPct, r.WindSpeedMS,
	)
}
