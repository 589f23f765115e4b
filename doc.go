/*
	Project: Organizer - grades, GPA and due dates for college students.

	Layout:
	- core/...           computations, no I/O (scale, course, grading, settings, planner, calendar)
	- storage/snapshot   the JSON data file
	- services/...       logger, export (csv, xlsx), import (csv), daily reminder
	- apps/organizer     the CLI
*/
package organizer
