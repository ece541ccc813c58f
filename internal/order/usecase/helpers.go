package usecase

import (
	"fmt"
	"strconv"
)

func fieldAt(list string, idx int, field string) string {
	return fmt.Sprintf("%s[%d].%s", list, idx, field)
}

// eventKey is the Kafka partition key; all events for one order stay ordered.
func eventKey(orderID uint64) string {
	return strconv.FormatUint(orderID, 10)
}
