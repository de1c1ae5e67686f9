package storefront

// extractScript pulls every organic search-result card into a JSON array.
// Sponsored results are skipped on every indicator Amazon uses; the title
// falls back through product-name span, h2 link, then image alt text.
const extractScript = `
(function() {
	var products = [];
	var items = document.querySelectorAll('[data-component-type="s-search-result"]');
	items.forEach(function(item) {
		try {
			var sponsoredEl = item.querySelector('.puis-sponsored-label-text');
			if (sponsoredEl) {
				var txt = sponsoredEl.textContent.trim().toLowerCase();
				if (txt === 'sponsored' || txt === 'commandité') return;
			}
			if (item.querySelector('[data-component-type="sp-sponsored-result"]')) return;
			var label = item.getAttribute('aria-label') || '';
			if (label.toLowerCase().includes('sponsored')) return;
			var imgCheck = item.querySelector('img.s-image');
			if (imgCheck && /^Sponsored\s+Ad/i.test(imgCheck.alt || '')) return;

			var productName = item.querySelector('.a-size-medium.a-color-base, .a-size-medium');
			var h2Link = item.querySelector('h2 a');
			var h2El = item.querySelector('h2');
			var imgEl = item.querySelector('img.s-image');
			var brand = h2El ? h2El.textContent.trim() : '';
			var title = '';
			if (productName) {
				var pn = productName.textContent.trim();
				title = (brand && !pn.toLowerCase().startsWith(brand.toLowerCase()))
					? brand + ' ' + pn : pn;
			} else if (h2Link && h2Link.textContent.trim().length > brand.length) {
				title = h2Link.textContent.trim();
			} else if (imgEl && imgEl.alt) {
				title = imgEl.alt.replace(/^Sponsored\s+Ad\s*[–—-]\s*/i, '').trim();
			} else {
				title = brand;
			}
			var linkEl = item.querySelector('h2 a');
			var href = linkEl ? linkEl.getAttribute('href') : '';
			var asin = item.getAttribute('data-asin') || '';

			var price = '';
			var priceWhole = item.querySelector('.a-price .a-price-whole');
			var priceFraction = item.querySelector('.a-price .a-price-fraction');
			if (priceWhole) {
				price = priceWhole.textContent.replace(',', '').trim();
				if (priceFraction) {
					price = price.replace('.', '') + '.' + priceFraction.textContent.trim();
				}
			}

			var ratingText = '';
			var ratingSels = [
				'i.a-icon-star-small .a-icon-alt', 'i.a-icon-star .a-icon-alt',
				'.a-icon-star-small .a-icon-alt', '.a-icon-star .a-icon-alt',
				'span[aria-label*="out of 5"]', 'i[class*="a-star"] .a-icon-alt'
			];
			for (var ri = 0; ri < ratingSels.length; ri++) {
				var rEl = item.querySelector(ratingSels[ri]);
				if (rEl) {
					var rTxt = rEl.textContent || rEl.getAttribute('aria-label') || '';
					if (rTxt && rTxt.includes('5')) { ratingText = rTxt.trim(); break; }
				}
			}

			var reviewText = '';
			var allLinks = item.querySelectorAll('a');
			for (var li = 0; li < allLinks.length; li++) {
				var lTxt = allLinks[li].textContent.trim();
				var m = lTxt.match(/^\(?([\d,]+)\)?$/);
				if (m && parseInt(m[1].replace(',', '')) > 0) {
					var lHref = allLinks[li].getAttribute('href') || '';
					if (lHref.includes('/dp/') || lHref.includes('customerReview') || lHref.includes('ref=sr_')) {
						reviewText = m[1];
						break;
					}
				}
			}
			if (!reviewText) {
				var reviewSels = [
					'[data-cy="reviews-block"] span.a-size-base',
					'span.a-size-base.s-underline-text',
					'a[href*="customerReviews"] span'
				];
				for (var si = 0; si < reviewSels.length; si++) {
					var sEl = item.querySelector(reviewSels[si]);
					if (sEl) {
						var sTxt = sEl.textContent.trim();
						if (sTxt && /[\d,]+/.test(sTxt) && sTxt.length < 10) { reviewText = sTxt; break; }
					}
				}
			}

			if (title) products.push({ title: title, price: price, rating: ratingText, reviews: reviewText, asin: asin, href: href });
		} catch (e) {}
	});
	return products;
})()
`

// addToCartScript probes the add-to-cart button variants Amazon rotates
// between product-page layouts and clicks the first visible one.
const addToCartScript = `
(function() {
	var selectors = [
		'#add-to-cart-button',
		"input[name='submit.add-to-cart']",
		'#buy-now-button',
		'#one-click-button',
		'input#add-to-cart-button-ubb',
		"input[value='Add to Cart']",
		"input[value='Add to cart']"
	];
	for (var i = 0; i < selectors.length; i++) {
		var btn = document.querySelector(selectors[i]);
		if (btn && btn.offsetParent !== null) {
			btn.scrollIntoView({ block: 'center' });
			btn.click();
			return true;
		}
	}
	return false;
})()
`

// dismissPopupsScript closes the protection-plan upsell and side sheets
// that appear after adding to cart
const dismissPopupsScript = `
(function() {
	var els = document.querySelectorAll('button, a, span, input');
	for (var i = 0; i < els.length; i++) {
		if (els[i].textContent.trim().toLowerCase().includes('no thanks')) {
			els[i].click();
			return 'dismissed';
		}
	}
	var close = document.querySelector('#attach-close_sideSheet-link, #abb-intl-decline, .a-popover-close, button.a-button-close');
	if (close) { close.click(); return 'closed'; }
	return 'none';
})()
`

// verifyCartScript confirms an add succeeded via the nav cart badge,
// falling back to confirmation text in the page body
const verifyCartScript = `
(function() {
	var badge = document.querySelector('#nav-cart-count');
	if (badge) {
		var n = parseInt(badge.textContent.trim());
		if (!isNaN(n) && n > 0) return 'ok';
	}
	var body = (document.body.textContent || '').toLowerCase();
	if (body.includes('added to cart') || body.includes('added to your')) return 'ok';
	return 'uncertain';
})()
`
