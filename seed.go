package shiftfanout

// Load bulk-inserts caregivers and shifts, replacing any record with the same
// identifier. Shifts are normalised so that a record without a status starts
// open with no fanout history.
func Load(shiftStore RecordStore[string, Shift], caregiverStore RecordStore[string, Caregiver], shifts []Shift, caregivers []Caregiver) {
	for _, c := range caregivers {
		caregiverStore.Put(c.ID, c)
	}

	for _, s := range shifts {
		s = s.Clone()
		if s.Status == "" {
			s.Status = StatusOpen
		}
		if s.Contacted == nil {
			s.Contacted = []string{}
		}
		shiftStore.Put(s.ID, s)
	}
}

// Reset empties both stores and loads them again. It exists so tests can
// start from a known state.
func Reset(shiftStore RecordStore[string, Shift], caregiverStore RecordStore[string, Caregiver], shifts []Shift, caregivers []Caregiver) {
	shiftStore.Clear()
	caregiverStore.Clear()
	Load(shiftStore, caregiverStore, shifts, caregivers)
}
