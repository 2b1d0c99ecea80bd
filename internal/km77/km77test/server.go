// SPDX-License-Identifier: MIT

// Package km77test serves a tiny fixture rendition of the catalog site
// for tests that exercise the fetch and scrape paths.
package km77test

import (
	"net/http"
	"net/http/httptest"
)

const makesPage = `<!DOCTYPE html>
<html><body>
<div class="js-brand-item"><a href="/coches/seat">SEAT</a></div>
<div class="js-brand-item"><a href="/coches/renault">Renault</a></div>
</body></html>`

const seatModelsPage = `<!DOCTYPE html>
<html><body>
<li class="vehicle-block">
  <a href="/coches/seat/ibiza"><div class="veh-name">Ibiza | <span>desde 2017</span></div></a>
</li>
</body></html>`

const renaultModelsPage = `<!DOCTYPE html>
<html><body>
<li class="vehicle-block">
  <a href="/coches/renault/clio"><div class="veh-name">Clio | <span>desde 2019</span></div></a>
</li>
</body></html>`

const ibizaTrimsPage = `<!DOCTYPE html>
<html><body>
<table>
  <tr><td class="vehicle-name">
    <span>(2021 -
    actual</span>
    <a href="/coches/seat/ibiza/1-0-tsi-style">1.0 TSI 110 Style</a>
  </td></tr>
</table>
</body></html>`

const clioTrimsPage = `<!DOCTYPE html>
<html><body>
<table>
  <tr><td class="vehicle-name">
    <span>(2019 -
    actual</span>
    <a href="/coches/renault/clio/tce-90"> TCe 90 Equilibre</a>
  </td></tr>
</table>
</body></html>`

const ibizaTrimPage = `<!DOCTYPE html>
<html><body>
<div id="measurements-1">
  <table>
    <caption>Motor</caption>
    <tr><th>Potencia máxima</th><td>110 CV / 81 kW</td></tr>
    <tr><th>Número de cilindros</th><td>3</td></tr>
    <tr><th>Número de velocidades</th><td>6</td></tr>
  </table>
  <table>
    <caption>Prestaciones</caption>
    <tr><th>Aceleración 0-100 km/h</th><td>10,3 s</td></tr>
  </table>
  <table>
    <caption>Bastidor</caption>
    <tr><th>Tipo de frenos delanteros</th><td>Freno de disco</td></tr>
    <tr><th>Tipo de frenos traseros</th><td>Freno de tambor</td></tr>
  </table>
</div>
</body></html>`

const ibizaOptionsPage = `<!DOCTYPE html>
<html><body>
<div id="features-2">
  <table>
    <caption>Seguridad</caption>
    <tr><th>Control de crucero adaptativo</th><td>Opcional</td></tr>
  </table>
</div>
</body></html>`

const clioTrimPage = `<!DOCTYPE html>
<html><body>
<div id="measurements-1">
  <table>
    <caption>Motor</caption>
    <tr><th>Potencia máxima</th><td>91 CV / 67 kW</td></tr>
    <tr><th>Número de cilindros</th><td>3</td></tr>
  </table>
  <table>
    <caption>Prestaciones</caption>
    <tr><th>Aceleración 0-100 km/h</th><td>12,2 s</td></tr>
  </table>
</div>
</body></html>`

const clioOptionsPage = `<!DOCTYPE html>
<html><body>
<div id="features-2">
  <table>
    <caption>Seguridad</caption>
    <tr><th>Faros de curva</th><td>No disponible</td></tr>
  </table>
</div>
</body></html>`

// Fixture counts for assertions against a full scrape of the site.
const (
	MakeCount  = 2
	ModelCount = 2
	TrimCount  = 2
)

// NewServer starts an httptest server with the fixture pages. The caller
// owns the server and must Close it.
func NewServer() *httptest.Server {
	pages := map[string]string{
		"/coches":                                       makesPage,
		"/coches/seat":                                  seatModelsPage,
		"/coches/renault":                               renaultModelsPage,
		"/coches/seat/ibiza/datos":                      ibizaTrimsPage,
		"/coches/renault/clio/datos":                    clioTrimsPage,
		"/coches/seat/ibiza/1-0-tsi-style":              ibizaTrimPage,
		"/coches/seat/ibiza/1-0-tsi-style/equipamiento": ibizaOptionsPage,
		"/coches/renault/clio/tce-90":                   clioTrimPage,
		"/coches/renault/clio/tce-90/equipamiento":      clioOptionsPage,
	}

	mux := http.NewServeMux()
	for path, page := range pages {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		})
	}
	return httptest.NewServer(mux)
}
