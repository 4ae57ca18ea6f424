package json_types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_AcceptedFormats(t *testing.T) {
	for _, str := range []string{"2024-02-10", "2024-02-10 15:30:00", "2024-02-10T15:30:00Z"} {
		date, err := ParseDate(str)
		require.NoError(t, err, str)
		assert.Equal(t, "2024-02-10", date.String())
	}
}

func TestDate_UnmarshalCanonicalRepresentation(t *testing.T) {
	var decoded Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-10T15:30:00Z"`), &decoded))

	// Распарсенная и сконструированная даты равны напрямую,
	// время внутри суток не остается в значении
	constructed := NewDate(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, constructed, decoded)
	assert.True(t, decoded.Date.Equal(constructed.Date))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("10.02.2024")
	assert.Error(t, err)
}

func TestTimeOfDay_UnmarshalWithAndWithoutSeconds(t *testing.T) {
	var withSeconds, withoutSeconds TimeOfDay

	require.NoError(t, json.Unmarshal([]byte(`"09:30:00"`), &withSeconds))
	require.NoError(t, json.Unmarshal([]byte(`"09:30"`), &withoutSeconds))

	assert.Equal(t, "09:30", withSeconds.String())
	assert.Equal(t, withoutSeconds.String(), withSeconds.String())
}

func TestDateTime_MarshalZeroAsNull(t *testing.T) {
	data, err := json.Marshal(DateTime{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
