package handler

import "github.com/iliyamo/room-escape-reservation/internal/model"

type memberResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type themeResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

type timeResp struct {
	ID      uint64 `json:"id"`
	StartAt string `json:"startAt"`
}

type reservationResp struct {
	ID     uint64     `json:"id"`
	Member memberResp `json:"member"`
	Date   string     `json:"date"`
	Time   timeResp   `json:"time"`
	Theme  themeResp  `json:"theme"`
}

type availableTimeResp struct {
	TimeID        uint64 `json:"timeId"`
	StartAt       string `json:"startAt"`
	AlreadyBooked bool   `json:"alreadyBooked"`
}

type tokenResp struct {
	AccessToken string `json:"accessToken"`
}

func toMember(m model.Member) memberResp { return memberResp{ID: m.ID, Name: m.Name} }

func toTheme(t model.Theme) themeResp {
	return themeResp{ID: t.ID, Name: t.Name, Description: t.Description, Thumbnail: t.Thumbnail}
}

func toTime(s model.TimeSlot) timeResp { return timeResp{ID: s.ID, StartAt: s.StartAt.String()} }

func toReservation(r model.Reservation) reservationResp {
	return reservationResp{
		ID:     r.ID,
		Member: toMember(r.Member),
		Date:   r.Date.String(),
		Time:   toTime(r.Time),
		Theme:  toTheme(r.Theme),
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
