package game

import "testing"

func TestFindAvailableSeatNumber(t *testing.T) {
	testCases := []struct {
		name            string
		assignedSeats   []uint32
		playersPerTable uint32
		expectedSeat    uint32
		expectedOK      bool
	}{
		{
			name:            "empty table",
			assignedSeats:   nil,
			playersPerTable: 6,
			expectedSeat:    1,
			expectedOK:      true,
		},
		{
			name:            "sequential fill",
			assignedSeats:   []uint32{1, 2, 3},
			playersPerTable: 6,
			expectedSeat:    4,
			expectedOK:      true,
		},
		{
			name:            "gap preferred over end",
			assignedSeats:   []uint32{1, 3, 4},
			playersPerTable: 6,
			expectedSeat:    2,
			expectedOK:      true,
		},
		{
			name:            "lowest of several gaps",
			assignedSeats:   []uint32{2, 5},
			playersPerTable: 6,
			expectedSeat:    1,
			expectedOK:      true,
		},
		{
			name:            "full table",
			assignedSeats:   []uint32{1, 2},
			playersPerTable: 2,
			expectedSeat:    0,
			expectedOK:      false,
		},
		{
			name:            "unordered input",
			assignedSeats:   []uint32{4, 1, 2},
			playersPerTable: 4,
			expectedSeat:    3,
			expectedOK:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seatNo, ok := findAvailableSeatNumber(tc.assignedSeats, tc.playersPerTable)
			if ok != tc.expectedOK || seatNo != tc.expectedSeat {
				t.Errorf("assigned: %v, capacity: %d, expected: (%d, %v), actual: (%d, %v)",
					tc.assignedSeats, tc.playersPerTable, tc.expectedSeat, tc.expectedOK, seatNo, ok)
			}
		})
	}
}

func TestSeatMonotonicFill(t *testing.T) {
	// The k-th sequential joiner receives seat k when nobody left.
	var assigned []uint32
	for k := uint32(1); k <= 9; k++ {
		seatNo, ok := findAvailableSeatNumber(assigned, 9)
		if !ok || seatNo != k {
			t.Fatalf("joiner %d: expected seat %d, got (%d, %v)", k, k, seatNo, ok)
		}
		assigned = append(assigned, seatNo)
	}
}
