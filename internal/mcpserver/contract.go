package mcpserver

// GridFormatContract describes the JSON returned by the month_grid tool.
const GridFormatContract = `# calpick Month Grid Format

The month_grid tool returns one month laid out on a Monday-first week.

## Fields

- ` + "`monthYear`" + `: localized label, e.g. "luglio 2024".
- ` + "`month`" + `: ` + "`{\"year\": 2024, \"month\": 7}`" + `.
- ` + "`previous`" + ` / ` + "`next`" + `: neighbouring months as YYYY-MM.
- ` + "`selectedDate`" + `: YYYY-MM-DD or empty.
- ` + "`today`" + `: YYYY-MM-DD in the server's time zone.
- ` + "`weekdays`" + `: seven short weekday names, Monday first.
- ` + "`days`" + `: the cells, in order.

## Cells

The list starts with padding cells so that day 1 lands under its weekday,
then one cell per day of the month. There are no trailing cells.

- Padding: ` + "`day`" + ` is 0, ` + "`id`" + ` is "empty-<i>", ` + "`date`" + ` is empty, every flag is false.
- Day: ` + "`day`" + ` is 1..31, ` + "`id`" + ` is "day-<n>", ` + "`date`" + ` is YYYY-MM-DD.
- ` + "`isToday`" + `, ` + "`isPast`" + `: relative to today. A day is never both.
- ` + "`isSelected`" + `: at most one cell per grid.
- ` + "`cssClass`" + `: "day-empty" for padding, otherwise "day" followed by
  "today" or "past" when set, then "selected" when set.

## Example

July 2024 starts on a Monday, so it has no padding and 31 cells.
February 2023 starts on a Wednesday: two padding cells, then 28 days.
`
