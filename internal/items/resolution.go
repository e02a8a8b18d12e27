package items

import "time"

// SetResolved es la única transición permitida sobre IsResolved/DateResolved:
//   - activo -> resuelto: fija DateResolved = now
//   - resuelto -> activo: limpia DateResolved
//   - mismo valor: no hace nada (el timestamp original se conserva)
//
// Devuelve true si hubo transición.
func (item *Item) SetResolved(resolved bool, now time.Time) bool {
	if item.IsResolved == resolved {
		return false
	}

	item.IsResolved = resolved
	if resolved {
		stamp := now.UTC()
		item.DateResolved = &stamp
	} else {
		item.DateResolved = nil
	}
	return true
}
