package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/terpwatch/terpwatch/internal/course"
	"github.com/terpwatch/terpwatch/internal/logger"
)

const (
	searchURLTemplate  = "https://app.testudo.umd.edu/soc/search?courseId=%s&sectionId=&termId=%s&creditCompare=&credits=&courseLevelFilter=ALL&instructor=&_facetoface=on&_blended=on&_online=on&courseStartCompare=&courseStartHour=&courseStartMin=&courseStartAM=&courseEndHour=&courseEndMin=&courseEndAM=&teachingCenter=ALL&_classDay1=on&_classDay2=on&_classDay3=on&_classDay4=on&_classDay5=on"
	sectionURLTemplate = "https://app.testudo.umd.edu/soc/%s/sections?courseIds=%s"
	refererURL         = "https://app.testudo.umd.edu/soc/search"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	timeout   = 25 * time.Second

	// instructorTBA is the placeholder for sections without a named
	// instructor. It is never empty: an empty instructor means the field
	// was never observed, which suppresses change detection.
	instructorTBA = "Instructor: TBA"

	// broadPrefix is fetched wholesale; courses under any other prefix
	// are kept only when watch-listed.
	broadPrefix = "cmsc4"
)

// coursePrefixes are the SOC search queries issued per fetch.
var coursePrefixes = []string{"cmsc3", "cmsc4"}

// Options configures a Scraper.
type Options struct {
	TermID   string
	Watch3xx []string
	Excluded []string
	Delay    time.Duration
}

// Scraper fetches and parses Testudo course and section pages.
type Scraper struct {
	client   *resty.Client
	termID   string
	watch3xx map[string]bool
	excluded map[string]bool
	delay    time.Duration
}

// New creates a Scraper for the given term and course filters.
func New(opts Options) *Scraper {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Scraper{
		client:   client,
		termID:   opts.TermID,
		watch3xx: toSet(opts.Watch3xx),
		excluded: toSet(opts.Excluded),
		delay:    opts.Delay,
	}
}

// Fetch retrieves the current snapshot of all monitored courses. A prefix
// page that fails to load is skipped (its courses simply go missing from
// the result); a failed sections request marks that course FetchError.
func (s *Scraper) Fetch(ctx context.Context) (course.Snapshot, error) {
	titles := make(map[string]string)

	for _, prefix := range coursePrefixes {
		searchURL := fmt.Sprintf(searchURLTemplate, prefix, s.termID)
		logger.Debug("fetching course list", logger.Fields{"prefix": prefix})

		resp, err := s.client.R().SetContext(ctx).Get(searchURL)
		if err != nil {
			logger.Warn("course list fetch failed", logger.Fields{"prefix": prefix, "error": err.Error()})
			continue
		}
		if resp.StatusCode() != 200 {
			logger.Warn("course list fetch failed", logger.Fields{"prefix": prefix, "status": resp.StatusCode()})
			continue
		}

		found, err := ParseCourseList(bytes.NewReader(resp.Body()))
		if err != nil {
			logger.Warn("course list parse failed", logger.Fields{"prefix": prefix, "error": err.Error()})
			continue
		}

		for id, title := range found {
			if s.relevant(prefix, id) {
				titles[id] = title
			}
		}
	}

	ids := make([]string, 0, len(titles))
	for id := range titles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	logger.Info("collected courses", logger.Fields{"count": len(ids)})

	snap := make(course.Snapshot, len(ids))
	for i, id := range ids {
		snap[id] = s.fetchSections(ctx, id, titles[id])
		if i < len(ids)-1 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return snap, ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	return snap, nil
}

// relevant applies the monitoring policy: excluded courses are dropped, the
// broad 400-level prefix is tracked wholesale, and any other prefix only
// contributes watch-listed courses.
func (s *Scraper) relevant(prefix, courseID string) bool {
	if s.excluded[courseID] {
		return false
	}
	if prefix == broadPrefix {
		return true
	}
	return s.watch3xx[courseID]
}

func (s *Scraper) fetchSections(ctx context.Context, courseID, title string) course.CourseRecord {
	sectionURL := fmt.Sprintf(sectionURLTemplate, s.termID, courseID)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Referer", refererURL).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		Get(sectionURL)
	if err != nil || resp.StatusCode() != 200 {
		fields := logger.Fields{"course": courseID}
		if err != nil {
			fields["error"] = err.Error()
		} else {
			fields["status"] = resp.StatusCode()
		}
		logger.Warn("section fetch failed, marking course", fields)
		return course.CourseRecord{Title: title, FetchError: true}
	}

	sections, err := ParseSections(bytes.NewReader(resp.Body()))
	if err != nil {
		logger.Warn("section parse failed, marking course", logger.Fields{"course": courseID, "error": err.Error()})
		return course.CourseRecord{Title: title, FetchError: true}
	}
	if len(sections) == 0 {
		logger.Debug("no sections found", logger.Fields{"course": courseID})
	}

	return course.CourseRecord{Title: title, Sections: sections}
}

// ParseCourseList extracts course IDs and titles from an SOC search results
// page.
func ParseCourseList(r io.Reader) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	courses := make(map[string]string)
	doc.Find("div.course").Each(func(i int, sel *goquery.Selection) {
		id := sel.Find(`input[name="courseId"]`).AttrOr("value", "")
		if id == "" {
			id = sel.AttrOr("id", "")
		}
		if id == "" {
			return
		}

		title := strings.TrimSpace(sel.Find("span.course-title").First().Text())
		if title == "" {
			title = "Unknown Title"
		}
		courses[id] = title
	})

	return courses, nil
}

// ParseSections extracts section records from an SOC sections fragment.
// Seat counts that fail to parse become unknown, never zero.
func ParseSections(r io.Reader) (map[string]course.SectionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	// The fragment normally wraps sections in a container, but fall back
	// to a bare scan when it is absent.
	scope := doc.Find("div.sections-container")
	sectionDivs := scope.Find("div.section")
	if scope.Length() == 0 {
		sectionDivs = doc.Find("div.section")
	}

	sections := make(map[string]course.SectionRecord)
	sectionDivs.Each(func(i int, sel *goquery.Selection) {
		id := strings.TrimSpace(sel.Find("span.section-id").First().Text())
		if id == "" {
			return
		}

		sections[id] = course.SectionRecord{
			Open:       parseSeatSpan(sel, "span.open-seats-count"),
			Total:      parseSeatSpan(sel, "span.total-seats-count"),
			Waitlist:   parseSeatSpan(sel, "span.waitlist-count"),
			Instructor: parseInstructor(sel),
		}
	})

	return sections, nil
}

func parseSeatSpan(sel *goquery.Selection, selector string) course.Seats {
	span := sel.Find(selector).First()
	if span.Length() == 0 {
		return course.UnknownSeats()
	}
	return parseSeats(span.Text())
}

func parseSeats(text string) course.Seats {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(text), ",", ""))
	if err != nil {
		return course.UnknownSeats()
	}
	return course.KnownSeats(n)
}

func parseInstructor(sel *goquery.Selection) string {
	span := sel.Find("span.section-instructor").First()
	if span.Length() == 0 {
		return instructorTBA
	}

	raw := span.Text()
	if link := span.Find("a").First(); link.Length() > 0 {
		raw = link.Text()
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, instructorTBA) {
		return instructorTBA
	}
	return raw
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
