// Package export renders occupancy series as CSV, in the two layouts
// downstream consumers expect: a long-form table for inference pipelines and
// a wide-form snapshot with per-room cost trailers.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/occusim/core/model"
	"github.com/kilianp07/occusim/core/occupancy"
)

// CostPerArea is the fixed room cost rate applied per unit of floor area in
// the wide-form trailer.
const CostPerArea = 95.39

const clockLayout = "15:04"

// WriteLongForm writes one row per room per tick: room label, HH:MM
// timestamp, occupied flag, occupancy count and max capacity. Coverage is
// probed with a one-second window.
func WriteLongForm(w io.Writer, b *model.Building) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Room", "Time", "Occupied", "Occupancy", "Max_occupancy"}); err != nil {
		return err
	}
	for _, p := range occupancy.Series(b, occupancy.Start(), time.Second) {
		rec := []string{
			p.Label,
			p.Time.Format(clockLayout),
			strconv.Itoa(p.Occupied),
			strconv.Itoa(p.Count),
			strconv.Itoa(p.Max),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWideForm writes one row per tick with one occupancy column per room,
// offices first, then two trailer rows: the maximum occupancy of each room
// and its cost (area times CostPerArea). Coverage is probed with a
// one-minute window.
func WriteWideForm(w io.Writer, b *model.Building) error {
	cw := csv.NewWriter(w)
	rooms := b.Rooms()

	header := make([]string, 0, len(rooms)+1)
	header = append(header, "Time")
	for _, room := range rooms {
		header = append(header, room.Label())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	pts := occupancy.Series(b, occupancy.Start(), time.Minute)
	for tick := 0; tick < occupancy.Ticks; tick++ {
		row := pts[tick*len(rooms) : (tick+1)*len(rooms)]
		rec := make([]string, 0, len(rooms)+1)
		rec = append(rec, row[0].Time.Format(clockLayout))
		for _, p := range row {
			rec = append(rec, strconv.Itoa(p.Count))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	maxRow := make([]string, 0, len(rooms)+1)
	maxRow = append(maxRow, "Maximum occupancy")
	costRow := make([]string, 0, len(rooms)+1)
	costRow = append(costRow, "Room cost")
	for _, room := range rooms {
		maxRow = append(maxRow, strconv.Itoa(room.MaxOccupancy()))
		costRow = append(costRow, strconv.FormatFloat(CostPerArea*room.Area, 'f', -1, 64))
	}
	if err := cw.Write(maxRow); err != nil {
		return err
	}
	if err := cw.Write(costRow); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
