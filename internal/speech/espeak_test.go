package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const espeakVoicesOutput = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  bg              --/M      Bulgarian          zls/bg
 5  en              --/M      English_(Great_Britain) gmw/en         (en 2)
 2  en-us           --/M      English_(America)  gmw/en-US            (en 3)
`

func TestParseESpeakVoices(t *testing.T) {
	voices := parseESpeakVoices(espeakVoicesOutput)
	require.Len(t, voices, 4)

	assert.Equal(t, Voice{ID: "af", Name: "Afrikaans", Lang: "af"}, voices[0])
	assert.Equal(t, Voice{ID: "en", Name: "English (Great Britain)", Lang: "en", Default: true}, voices[2])
	assert.Equal(t, "en-us", voices[3].ID)

	assert.Empty(t, parseESpeakVoices(""))
}

func TestESpeakArgs(t *testing.T) {
	args := espeakArgs(Utterance{Text: "hi", Rate: 1, Pitch: 1, Volume: 1})
	assert.Equal(t, []string{"-s", "175", "-p", "50", "-a", "100", "--stdin"}, args)

	args = espeakArgs(Utterance{Text: "hi", Voice: Voice{ID: "bg"}, Rate: 2, Pitch: 2, Volume: 0.5})
	assert.Equal(t, []string{"-v", "bg", "-s", "350", "-p", "99", "-a", "50", "--stdin"}, args)
}

func TestESpeakMappings(t *testing.T) {
	assert.Equal(t, 80, espeakWPM(MinRate))
	assert.Equal(t, 450, espeakWPM(MaxRate))
	assert.Equal(t, 0, espeakPitch(0))
	assert.Equal(t, 0, espeakAmplitude(0))
	assert.Equal(t, 100, espeakAmplitude(1))
}

func TestESpeakEngineIdleControls(t *testing.T) {
	e := &ESpeakEngine{binary: "espeak-ng"}

	assert.Equal(t, "espeak-ng", e.Name())
	assert.NoError(t, e.Pause())
	assert.NoError(t, e.Resume())
	assert.NoError(t, e.Cancel())
}
