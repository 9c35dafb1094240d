package model

import "time"

// Showtime is a single scheduled showing of a movie on a screen.  Seat
// rows reference a showtime and are bulk-created when the showtime is
// scheduled by an admin.
//
// Fields:
//  ID         – primary key identifier.
//  MovieTitle – title of the movie being shown.
//  Screen     – name of the screen/auditorium.
//  StartsAt   – when the showing begins (UTC).
//  CreatedAt  – creation timestamp.
type Showtime struct {
    ID         uint64    // showtimes.id
    MovieTitle string    // showtimes.movie_title
    Screen     string    // showtimes.screen
    StartsAt   time.Time // showtimes.starts_at
    CreatedAt  time.Time // showtimes.created_at
}
