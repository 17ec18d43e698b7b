package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func mapToJSON(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func jsonToMap(j datatypes.JSON) map[string]interface{} {
	if len(j) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(j, &m); err != nil {
		return nil
	}
	return m
}
